// Package sheet reads uploaded audit spreadsheets into a header row and
// typed data rows.
package sheet

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/auditscore/internal/cell"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
	ErrUnsupportedFormat = errors.New("unsupported sheet format")
	// ErrNoHeader is returned when the sheet has no header row.
	ErrNoHeader = errors.New("sheet has no header row")
)

// Sheet holds a loaded spreadsheet with its content and metadata.
type Sheet struct {
	FilePath string
	// Name is the worksheet read from a workbook; empty for CSV.
	Name    string
	Headers []string
	Rows    [][]cell.Cell
	Hash    string
}

// Load reads an .xlsx or .csv file and computes its SHA-256 hash. For a
// workbook, sheetName selects the worksheet; empty means the first one.
func Load(path, sheetName string) (*Sheet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, fmt.Errorf("sheet.Load: %s: %w", ext, ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet.Load: %w", err)
	}

	var s *Sheet
	if ext == ".csv" {
		s, err = ReadCSV(bytes.NewReader(data))
	} else {
		s, err = ReadXLSX(bytes.NewReader(data), sheetName)
	}
	if err != nil {
		return nil, fmt.Errorf("sheet.Load: %w", err)
	}
	h := sha256.Sum256(data)
	s.FilePath = path
	s.Hash = fmt.Sprintf("sha256:%x", h)
	return s, nil
}

// ReadCSV decodes a CSV stream. The first record is the header row; rows
// may be shorter or longer than it.
func ReadCSV(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	s := &Sheet{Headers: headers}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		s.Rows = append(s.Rows, cell.Row(trimTrailing(rec)))
	}
	return s, nil
}

// trimTrailing drops trailing empty fields the way the workbook reader
// does, so a line of bare commas becomes a row with no cells.
func trimTrailing(rec []string) []string {
	n := len(rec)
	for n > 0 && rec[n-1] == "" {
		n--
	}
	return rec[:n]
}

// ReadXLSX decodes one worksheet of a workbook. Shared and inline strings
// stay text, ISO date cells become dates, and numeric cells keep their raw
// value so date serials can be read later.
func ReadXLSX(r io.Reader, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, ErrNoHeader
		}
		sheetName = list[0]
	}
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	s := &Sheet{Name: sheetName, Headers: rows[0]}
	for i, raw := range rows[1:] {
		row := make([]cell.Cell, len(raw))
		for j, v := range raw {
			row[j] = xlsxCell(f, sheetName, j+1, i+2, v)
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func xlsxCell(f *excelize.File, sheetName string, col, row int, raw string) cell.Cell {
	if strings.TrimSpace(raw) == "" {
		return cell.Empty()
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return cell.Infer(raw)
	}
	typ, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return cell.Infer(raw)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return cell.Text(raw)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return cell.Date(t)
		}
		return cell.Text(raw)
	}
	return cell.Infer(raw)
}
