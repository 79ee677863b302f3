// Package redact masks personal contact details and credentials in audit
// answers with [REDACTED] before they are written out.
package redact

import (
	"regexp"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/cell"
)

const mask = "[REDACTED]"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// Email addresses
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		// Indian mobile numbers, optionally with +91 or a leading 0
		`(?:\+91[\s\-]?|\b0|\b)[6-9]\d{4}[\s\-]?\d{5}\b`,
		// Landlines written with an STD code, e.g. 022-12345678
		`\b0\d{2,4}[\s\-]\d{6,8}\b`,
		// Generic key/secret/token/password assignments
		`(?i)(api[_-]?key|secret|token|password|passwd|otp)\s*[:=]\s*\S+`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces contact and secret patterns in text with [REDACTED].
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, mask)
	}
	return text
}

// Answers returns a copy of a with every matching value masked. Numeric
// cells are checked in their display form, so a phone number stored as a
// number is masked too. Cells with nothing to mask keep their type.
func Answers(a audit.Answers) audit.Answers {
	if a == nil {
		return nil
	}
	out := make(audit.Answers, len(a))
	for k, c := range a {
		out[k] = cellValue(c)
	}
	return out
}

func cellValue(c cell.Cell) cell.Cell {
	switch c.Kind() {
	case cell.KindText, cell.KindNumber:
		s := c.String()
		if r := Redact(s); r != s {
			return cell.Text(r)
		}
	}
	return c
}

// Record masks r's answers and the free-text fields copied out of them, so
// a phone number used as a store id does not survive in the id column.
func Record(r *audit.Record) {
	r.ID = Redact(r.ID)
	r.Name = Redact(r.Name)
	r.Location = Redact(r.Location)
	r.AuditorName = Redact(r.AuditorName)
	r.RawData = Answers(r.RawData)
}
