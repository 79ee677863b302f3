package normalize

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/auditscore/internal/cell"
)

// DateOrder decides how an ambiguous numeric date such as 05/03/2024 is
// read.
type DateOrder string

const (
	// DayFirst reads 05/03/2024 as 5 March. Sheets from Indian locales
	// use it, so it is the default.
	DayFirst DateOrder = "day_first"
	// MonthFirst reads 05/03/2024 as 3 May, as Google Forms exports
	// from US-locale accounts do.
	MonthFirst DateOrder = "month_first"
)

// Valid reports whether o is a known order.
func (o DateOrder) Valid() bool {
	return o == DayFirst || o == MonthFirst
}

var (
	isoLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02",
	}
	dayFirstLayouts = []string{
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
	}
	monthFirstLayouts = []string{
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006",
		"1-2-2006",
		"1.2.2006",
	}
	namedLayouts = []string{
		"2 Jan 2006",
		"2 January 2006",
		"02-Jan-2006",
		"02-Jan-06",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// layouts lists the text layouts in the order they are tried. The
// preferred numeric order goes first and the other still catches dates
// such as 1/15/2024 that can only be read one way.
func (o DateOrder) layouts() []string {
	first, second := dayFirstLayouts, monthFirstLayouts
	if o == MonthFirst {
		first, second = monthFirstLayouts, dayFirstLayouts
	}
	out := make([]string, 0, len(isoLayouts)+len(first)+len(second)+len(namedLayouts))
	out = append(out, isoLayouts...)
	out = append(out, first...)
	out = append(out, second...)
	return append(out, namedLayouts...)
}

var (
	dayFirstOrder   = DayFirst.layouts()
	monthFirstOrder = MonthFirst.layouts()
)

// Excel serials outside this range are not treated as dates:
// 1 is 1900-01-01 and 2958465 is 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate reads a date from a cell, day first. See ParseDateOrder.
func ParseDate(c cell.Cell) (*time.Time, bool) {
	return ParseDateOrder(c, DayFirst)
}

// ParseDateOrder reads a date from a cell. Date cells pass through, number
// cells are read as Excel serial dates, text is tried against a list of
// layouts with the numeric order o. It reports false instead of returning
// an unusable time.
func ParseDateOrder(c cell.Cell, o DateOrder) (*time.Time, bool) {
	switch c.Kind() {
	case cell.KindDate:
		t, _ := c.Time()
		return &t, true
	case cell.KindNumber:
		f, _ := c.Float()
		if f < minExcelSerial || f > maxExcelSerial {
			return nil, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return nil, false
		}
		return &t, true
	case cell.KindText:
		return parseDateText(c.String(), o)
	}
	return nil, false
}

func parseDateText(s string, o DateOrder) (*time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil, false
	}
	layouts := dayFirstOrder
	if o == MonthFirst {
		layouts = monthFirstOrder
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
