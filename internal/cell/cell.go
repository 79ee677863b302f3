// Package cell defines the typed spreadsheet value that rows are made of.
package cell

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Cell holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// DateLayout is the layout used when a date cell is rendered as text.
const DateLayout = "2006-01-02"

// Cell is one spreadsheet value. The zero value is an empty cell.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Text returns a text cell holding s verbatim.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, num: f} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{kind: KindDate, date: t} }

// Infer builds a cell from decoded spreadsheet text: blank input is
// empty, a finite decimal is a number, anything else is text. Zero-padded
// codes such as "00123" stay text.
func Infer(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Empty()
	}
	if zeroPadded(trimmed) {
		return Text(s)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(f)
	}
	return Text(s)
}

func zeroPadded(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// Row converts a slice of decoded strings into cells with Infer.
func Row(values []string) []Cell {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = Infer(v)
	}
	return row
}

func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell carries no value. Whitespace-only text
// counts as empty.
func (c Cell) IsEmpty() bool {
	switch c.kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(c.text) == ""
	}
	return false
}

// Float returns the numeric value of a number cell.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Time returns the value of a date cell.
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// String renders the cell the way keyword matching and display see it.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format(DateLayout)
	default:
		return ""
	}
}

// MarshalJSON writes numbers as JSON numbers, empty cells as "" and
// everything else as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == KindNumber {
		return json.Marshal(c.num)
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON reads a JSON number as a number cell and a string through Infer.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*c = Number(x)
	case string:
		*c = Infer(x)
	default:
		*c = Empty()
	}
	return nil
}
