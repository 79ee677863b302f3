// Package schema validates a batch report before it is written out.
package schema

import (
	"fmt"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/report"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Report for structural validity and checks that its
// summary agrees with its records.
func Validate(r *report.Report) []ValidationError {
	var errs []ValidationError

	if r.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}
	if r.Version == "" {
		errs = append(errs, ValidationError{"version", "required"})
	}
	if r.BatchID == "" {
		errs = append(errs, ValidationError{"batch_id", "required"})
	}
	if r.Input.AuditType != "" && !r.Input.AuditType.Valid() {
		errs = append(errs, ValidationError{"input.audit_type", fmt.Sprintf("invalid: %q", r.Input.AuditType)})
	}

	for i, e := range r.Records {
		prefix := fmt.Sprintf("records[%d]", i)
		errs = append(errs, validateRecord(prefix, &e.Record)...)
		if e.Fatal != report.IsFatal(e.Score, r.Summary.FatalThreshold) {
			errs = append(errs, ValidationError{prefix + ".fatal", fmt.Sprintf("does not match score %d and threshold %d", e.Score, r.Summary.FatalThreshold)})
		}
		if e.Breakdown != nil && e.ScoreSource == audit.ScoreCalculated && e.Breakdown.TotalScore != e.Score {
			errs = append(errs, ValidationError{prefix + ".breakdown.total_score", fmt.Sprintf("expected %d, got %d", e.Score, e.Breakdown.TotalScore)})
		}
	}

	// Verify summary consistency
	expected := report.ComputeSummary(r.Records, r.Summary.Rows, r.Summary.FatalThreshold)
	check := func(path string, got, want int) {
		if got != want {
			errs = append(errs, ValidationError{"summary." + path, fmt.Sprintf("expected %d, got %d", want, got)})
		}
	}
	check("parsed", r.Summary.Parsed, expected.Parsed)
	check("skipped", r.Summary.Skipped, expected.Skipped)
	check("explicit_scores", r.Summary.Explicit, expected.Explicit)
	check("calculated_scores", r.Summary.Calculated, expected.Calculated)
	check("fatal_count", r.Summary.FatalCount, expected.FatalCount)
	if r.Summary.AverageScore != expected.AverageScore {
		errs = append(errs, ValidationError{"summary.average_score", fmt.Sprintf("expected %v, got %v", expected.AverageScore, r.Summary.AverageScore)})
	}
	if r.Summary.Parsed > r.Summary.Rows {
		errs = append(errs, ValidationError{"summary.parsed", fmt.Sprintf("exceeds row count (%d)", r.Summary.Rows)})
	}

	return errs
}

func validateRecord(prefix string, rec *audit.Record) []ValidationError {
	var errs []ValidationError
	if rec.ID == "" {
		errs = append(errs, ValidationError{prefix + ".id", "required"})
	}
	if rec.Name == "" {
		errs = append(errs, ValidationError{prefix + ".name", "required"})
	}
	if !rec.Type.Valid() {
		errs = append(errs, ValidationError{prefix + ".audit_type", fmt.Sprintf("invalid: %q", rec.Type)})
	}
	if rec.Status != audit.StatusCompleted {
		errs = append(errs, ValidationError{prefix + ".status", fmt.Sprintf("must be %q, got %q", audit.StatusCompleted, rec.Status)})
	}
	if rec.Score < audit.MinScore || rec.Score > audit.MaxScore {
		errs = append(errs, ValidationError{prefix + ".score", fmt.Sprintf("%d out of range [%d,%d]", rec.Score, audit.MinScore, audit.MaxScore)})
	}
	if !rec.ScoreSource.Valid() {
		errs = append(errs, ValidationError{prefix + ".score_source", fmt.Sprintf("invalid: %q", rec.ScoreSource)})
	}
	if rec.RawData == nil {
		errs = append(errs, ValidationError{prefix + ".raw_data", "required"})
	}
	return errs
}
