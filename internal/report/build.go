package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/scoring"
)

// Options controls how a report is assembled.
type Options struct {
	// Rows is the number of data rows read from the sheet, including skipped ones.
	Rows           int
	FatalThreshold int
	Breakdowns     bool
	Now            func() time.Time
}

// New assembles a report for one batch of records. Entries are sorted and
// the summary is computed from them; every call gets a fresh batch id.
func New(tool, version string, in Input, records []*audit.Record, opts Options) *Report {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		e := Entry{Record: *rec, Fatal: IsFatal(rec.Score, opts.FatalThreshold)}
		if opts.Breakdowns {
			e.Breakdown = scoring.BreakdownFor(rec.Type, rec.RawData)
		}
		entries = append(entries, e)
	}
	SortEntries(entries)

	return &Report{
		Tool:        tool,
		Version:     version,
		Input:       in,
		BatchID:     uuid.NewString(),
		GeneratedAt: opts.Now().UTC(),
		Summary:     ComputeSummary(entries, opts.Rows, opts.FatalThreshold),
		Records:     entries,
	}
}

// IsFatal reports whether score falls below threshold.
func IsFatal(score, threshold int) bool {
	return score < threshold
}
