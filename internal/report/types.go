// Package report defines the batch output produced by a parse run.
package report

import (
	"time"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/scoring"
)

// DefaultFatalThreshold is the score below which an audit is fatal.
const DefaultFatalThreshold = 70

// Report is the top-level output object.
type Report struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	Input       Input     `json:"input"`
	BatchID     string    `json:"batch_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Records     []Entry   `json:"records"`
}

// Input describes the sheet that was parsed.
type Input struct {
	File      string     `json:"file"`
	Hash      string     `json:"hash"`
	Sheet     string     `json:"sheet,omitempty"`
	AuditType audit.Type `json:"audit_type"`
	Detected  bool       `json:"detected"`
	// DateOrder is how ambiguous numeric dates such as 05/03/2024 were
	// read: day_first or month_first.
	DateOrder string     `json:"date_order,omitempty"`
}

// Entry is one parsed record, optionally with its category breakdown.
type Entry struct {
	audit.Record
	Fatal     bool               `json:"fatal"`
	Breakdown *scoring.Breakdown `json:"breakdown,omitempty"`
}

// Summary holds batch totals and per-group statistics.
type Summary struct {
	Rows           int     `json:"rows"`
	Parsed         int     `json:"parsed"`
	Skipped        int     `json:"skipped"`
	Explicit       int     `json:"explicit_scores"`
	Calculated     int     `json:"calculated_scores"`
	AverageScore   float64 `json:"average_score"`
	FatalThreshold int     `json:"fatal_threshold"`
	FatalCount     int     `json:"fatal_count"`
	ByType         []Group `json:"by_type"`
	ByCircle       []Group `json:"by_circle"`
}

// Group aggregates the records sharing one audit type or circle.
type Group struct {
	Key          string  `json:"key"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	FatalCount   int     `json:"fatal_count"`
}
