// Package audit defines the audit record produced from one spreadsheet row.
package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/auditscore/internal/cell"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Answers maps each original column header to the row's cell under it.
type Answers map[string]cell.Cell

// NewAnswers pairs headers with row cells. Blank headers and cells past
// the end of the header row are keyed "Column N"; a repeated header gets
// a " (2)", " (3)" suffix so that no cell is lost. Missing cells are empty.
func NewAnswers(row []cell.Cell, headers []string) Answers {
	n := len(headers)
	if len(row) > n {
		n = len(row)
	}
	a := make(Answers, n)
	for i := 0; i < n; i++ {
		var h string
		if i < len(headers) {
			h = strings.TrimSpace(headers[i])
		}
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		key := h
		for dup := 2; ; dup++ {
			if _, taken := a[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s (%d)", h, dup)
		}
		if i < len(row) {
			a[key] = row[i]
		} else {
			a[key] = cell.Empty()
		}
	}
	return a
}

// Keys returns the headers in sorted order. Every scan that stops at a
// first match iterates in this order.
func (a Answers) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record is a candidate audit ready for persistence.
type Record struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location,omitempty"`
	Type        Type        `json:"audit_type"`
	Circle      string      `json:"circle,omitempty"`
	AuditDate   *time.Time  `json:"audit_date,omitempty"`
	Status      Status      `json:"status"`
	Score       int         `json:"score"`
	ScoreSource ScoreSource `json:"score_source"`
	AuditorName string      `json:"auditor_name,omitempty"`
	RawData     Answers     `json:"raw_data"`
}
