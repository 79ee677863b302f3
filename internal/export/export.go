// Package export writes parsed audit records to a spreadsheet file.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/auditscore/internal/cell"
	"github.com/dshills/auditscore/internal/report"
)

// SheetName is the worksheet written to .xlsx exports.
const SheetName = "Audits"

// ErrUnsupportedFormat is returned for output paths that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

var fixedColumns = []string{
	"ID", "Name", "Location", "Audit Type", "Circle", "Audit Date",
	"Status", "Score", "Score Source", "Auditor", "Fatal",
}

// WriteFile writes one row per entry to outPath, choosing the format from
// its extension. Fixed record columns come first, followed by every answer
// header seen in the batch in sorted order.
func WriteFile(entries []report.Entry, outPath string) error {
	var err error
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".csv":
		err = writeCSV(entries, outPath)
	case ".xlsx":
		err = writeXLSX(entries, outPath)
	default:
		err = fmt.Errorf("%s: %w", filepath.Ext(outPath), ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("export.WriteFile: %w", err)
	}
	return nil
}

func answerHeaders(entries []report.Entry) []string {
	seen := map[string]bool{}
	var headers []string
	for _, e := range entries {
		for k := range e.RawData {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

// values returns the row for e; answers keep their cell type.
func values(e report.Entry, answers []string) []any {
	date := ""
	if e.AuditDate != nil {
		date = e.AuditDate.Format(cell.DateLayout)
	}
	row := []any{
		e.ID, e.Name, e.Location, string(e.Type), e.Circle, date,
		string(e.Status), e.Score, string(e.ScoreSource), e.AuditorName, e.Fatal,
	}
	for _, h := range answers {
		c := e.RawData[h]
		if f, ok := c.Float(); ok {
			row = append(row, f)
			continue
		}
		row = append(row, c.String())
	}
	return row
}

func writeCSV(entries []report.Entry, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	answers := answerHeaders(entries)
	if err := w.Write(append(append([]string{}, fixedColumns...), answers...)); err != nil {
		_ = f.Close()
		return err
	}
	for _, e := range entries {
		vals := values(e, answers)
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = csvValue(v)
		}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func csvValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func writeXLSX(entries []report.Entry, outPath string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	answers := answerHeaders(entries)
	header := make([]any, 0, len(fixedColumns)+len(answers))
	for _, h := range fixedColumns {
		header = append(header, h)
	}
	for _, h := range answers {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}

	for i, e := range entries {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := values(e, answers)
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(outPath)
}
