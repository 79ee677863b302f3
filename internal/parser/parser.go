// Package parser turns spreadsheet rows into audit records. Headers are
// matched loosely so that column order and wording may vary between
// uploads; malformed values degrade to defaults instead of failing.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/cell"
	"github.com/dshills/auditscore/internal/logger"
	"github.com/dshills/auditscore/internal/normalize"
	"github.com/dshills/auditscore/internal/profile"
	"github.com/dshills/auditscore/internal/scoring"
)

// ScoreSourcePriority is the order in which score sources are consulted.
// An explicit score column always beats the calculated score.
var ScoreSourcePriority = []audit.ScoreSource{audit.ScoreExplicit, audit.ScoreCalculated}

// noCircle stands in for the circle in a synthetic id when the row has none.
const noCircle = "NA"

// Parser converts rows into records. It holds no per-row state and is
// safe for concurrent use.
type Parser struct {
	log   *logger.Logger
	now   func() time.Time
	dates normalize.DateOrder
}

type Option func(*Parser)

// WithLogger sends parse diagnostics to l.
func WithLogger(l *logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock sets the clock used for synthetic record ids.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithDateOrder sets how ambiguous numeric dates are read. Unknown orders
// are ignored.
func WithDateOrder(o normalize.DateOrder) Option {
	return func(p *Parser) {
		if o.Valid() {
			p.dates = o
		}
	}
}

// New returns a parser with a no-op logger, the wall clock and day-first
// dates.
func New(opts ...Option) *Parser {
	p := &Parser{log: logger.Nop(), now: time.Now, dates: normalize.DayFirst}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultParser = New()

// ParseRow parses one row with the default parser. See Parser.ParseRow.
func ParseRow(row []cell.Cell, headers []string, t audit.Type) *audit.Record {
	return defaultParser.ParseRow(row, headers, t)
}

// ParseRow converts one row into a candidate record. An empty or invalid t
// means "detect from headers"; sheets that cannot be classified are read
// with the store rules. It returns nil only for a row with no cells; a
// row of blank cells still yields a record.
func (p *Parser) ParseRow(row []cell.Cell, headers []string, t audit.Type) *audit.Record {
	resolved := p.resolveType(headers, t)
	return p.parseRow(row, headers, resolved, p.log)
}

// Stats counts what happened to a batch of rows.
type Stats struct {
	Rows       int        `json:"rows"`
	Parsed     int        `json:"parsed"`
	Skipped    int        `json:"skipped"`
	Explicit   int        `json:"explicit_scores"`
	Calculated int        `json:"calculated_scores"`
	Type       audit.Type `json:"audit_type"`
	Detected   bool       `json:"detected"`
}

// ParseRows parses every row of a sheet that shares one header row. The
// audit type is resolved once for the whole sheet. Every non-empty row
// yields a record; duplicates are not filtered.
func (p *Parser) ParseRows(rows [][]cell.Cell, headers []string, t audit.Type) ([]*audit.Record, Stats) {
	resolved := p.resolveType(headers, t)
	stats := Stats{Rows: len(rows), Type: resolved, Detected: !t.Valid()}

	records := make([]*audit.Record, 0, len(rows))
	for i, row := range rows {
		// Sheet row numbers are 1-based and the header is row 1.
		rec := p.parseRow(row, headers, resolved, p.log.With("row", i+2))
		if rec == nil {
			stats.Skipped++
			continue
		}
		stats.Parsed++
		switch rec.ScoreSource {
		case audit.ScoreExplicit:
			stats.Explicit++
		case audit.ScoreCalculated:
			stats.Calculated++
		}
		records = append(records, rec)
	}
	p.log.Debug("parsed rows", "type", resolved, "rows", stats.Rows, "parsed", stats.Parsed, "skipped", stats.Skipped)
	return records, stats
}

func (p *Parser) resolveType(headers []string, t audit.Type) audit.Type {
	if t.Valid() {
		return t
	}
	d := DetectAuditType(headers)
	if !d.Valid() {
		p.log.Warn("unrecognized sheet, using store rules", "headers", len(headers))
		return audit.TypeStore
	}
	p.log.Debug("detected audit type", "type", d)
	return d
}

func (p *Parser) parseRow(row []cell.Cell, headers []string, t audit.Type, log *logger.Logger) *audit.Record {
	if len(row) == 0 {
		log.Debug("skipping empty row")
		return nil
	}
	rules := profiles[t]
	field := func(name string) (cell.Cell, bool) {
		return locate(row, headers, rules.Candidates(name))
	}
	text := func(name string) string {
		c, _ := field(name)
		return strings.TrimSpace(c.String())
	}

	answers := audit.NewAnswers(row, headers)
	rec := &audit.Record{
		Name:        text(profile.FieldName),
		Location:    text(profile.FieldLocation),
		Type:        t,
		Circle:      normalize.CircleCode(text(profile.FieldCircle)),
		Status:      audit.StatusCompleted,
		AuditorName: text(profile.FieldAuditorName),
		RawData:     answers,
	}
	rec.AuditDate = parseDate(log, field, p.dates, profile.FieldDate, profile.FieldTimestamp)

	scoreCell, hasScore := field(profile.FieldScore)
	rec.Score, rec.ScoreSource = resolveScore(log, t, scoreCell, hasScore, answers)

	rec.ID = text(profile.FieldID)
	if rec.ID == "" {
		rec.ID = rec.Name
	}
	if rec.ID == "" {
		rec.ID = p.syntheticID(t, rec.Circle)
		log.Debug("no id column value, generated one", "id", rec.ID)
	}
	if rec.Name == "" {
		rec.Name = rec.ID
	}
	return rec
}

// resolveScore walks ScoreSourcePriority and returns the first source
// that yields a value.
func resolveScore(log *logger.Logger, t audit.Type, explicit cell.Cell, hasExplicit bool, answers audit.Answers) (int, audit.ScoreSource) {
	for _, src := range ScoreSourcePriority {
		switch src {
		case audit.ScoreExplicit:
			if !hasExplicit || explicit.IsEmpty() {
				continue
			}
			score, adjusted := normalize.ClampScore(explicit)
			if adjusted {
				log.Warn("explicit score out of range or not numeric, clamped", "raw", explicit.String(), "score", score)
			}
			return score, audit.ScoreExplicit
		case audit.ScoreCalculated:
			return scoring.Calculate(t, answers), audit.ScoreCalculated
		}
	}
	return audit.MinScore, audit.ScoreCalculated
}

// parseDate reads the first of the named fields that holds a value. An
// unparseable value is dropped with a diagnostic.
func parseDate(log *logger.Logger, field func(string) (cell.Cell, bool), order normalize.DateOrder, names ...string) *time.Time {
	for _, name := range names {
		c, ok := field(name)
		if !ok || c.IsEmpty() {
			continue
		}
		if t, ok := normalize.ParseDateOrder(c, order); ok {
			return t
		}
		log.Debug("unparseable date, field omitted", "field", name, "raw", c.String())
	}
	return nil
}

// syntheticID builds an id from the audit type, circle and the clock in
// milliseconds. Two rows parsed within the same millisecond with the same
// type and circle get the same id.
func (p *Parser) syntheticID(t audit.Type, circle string) string {
	if circle == "" {
		circle = noCircle
	}
	circle = strings.Join(strings.Fields(circle), "_")
	return fmt.Sprintf("%s-%s-%d", strings.ToUpper(string(t)), circle, p.now().UnixMilli())
}

// locate returns the cell under the first header, in header order, whose
// folded text contains any candidate.
func locate(row []cell.Cell, headers []string, candidates []string) (cell.Cell, bool) {
	for i, h := range headers {
		if !normalize.ContainsAny(normalize.Key(h), candidates) {
			continue
		}
		if i < len(row) {
			return row[i], true
		}
		return cell.Empty(), true
	}
	return cell.Empty(), false
}
