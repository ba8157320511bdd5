// Package ingest parses uploaded spreadsheets into chart data.
package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/chart-agent/internal/types"
)

// Workbook holds the contents of the first sheet of an uploaded file.
type Workbook struct {
	SheetName string
	Columns   []string
	Rows      [][]string
}

// Detected is chart data recognized directly from a two-column sheet,
// without any language model involvement.
type Detected struct {
	Pairs  []types.Pair
	XLabel string
	YLabel string
}

// ParseWorkbook reads the first sheet of an xlsx stream. A leading row whose
// cells are all non-numeric is treated as the header.
func ParseWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var kept [][]string
	for _, row := range rows {
		if !rowEmpty(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	wb := &Workbook{SheetName: sheet}
	if len(kept) > 1 && isHeaderRow(kept[0]) {
		wb.Columns = kept[0]
		wb.Rows = kept[1:]
	} else {
		wb.Rows = kept
	}
	return wb, nil
}

// AutoDetect recognizes the common two-column shape: a label column followed
// by a numeric column. It returns false when the sheet has any other shape.
func (wb *Workbook) AutoDetect() (*Detected, bool) {
	if wb.width() != 2 {
		return nil, false
	}

	pairs := make([]types.Pair, 0, len(wb.Rows))
	for _, row := range wb.Rows {
		if len(row) < 2 {
			return nil, false
		}
		value, ok := parseNumber(row[1])
		if !ok {
			return nil, false
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			return nil, false
		}
		pairs = append(pairs, types.Pair{Label: label, Value: value})
	}
	if len(pairs) == 0 {
		return nil, false
	}

	det := &Detected{Pairs: pairs}
	if len(wb.Columns) >= 2 {
		det.XLabel = strings.TrimSpace(wb.Columns[0])
		det.YLabel = strings.TrimSpace(wb.Columns[1])
	}
	return det, true
}

// Text renders the sheet for a language model to interpret when the shape is
// not auto-detectable. Two-column sheets become "label = value" lines.
func (wb *Workbook) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spreadsheet contains %d rows and %d columns.\n", len(wb.Rows), wb.width())
	if len(wb.Columns) > 0 {
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(wb.Columns, ", "))
	}
	b.WriteString("Data:\n")

	if wb.width() == 2 {
		for _, row := range wb.Rows {
			if len(row) >= 2 {
				fmt.Fprintf(&b, "%s = %s\n", row[0], row[1])
			}
		}
		return b.String()
	}
	for _, row := range wb.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (wb *Workbook) width() int {
	w := len(wb.Columns)
	for _, row := range wb.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// isHeaderRow reports whether a row looks like column names rather than data.
func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if _, ok := parseNumber(cell); ok {
			return false
		}
	}
	return true
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
