package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an xlsx file into ordered Rows. The
// first row is the header row; blank headers get placeholder names in column
// order. Blank cells come through as nil and numeric-looking cells as
// float64.
func ParseWorkbook(reader io.Reader) ([]Row, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("workbook is empty")
	}

	headers := headerNames(raw[0])

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := Row{
			Headers: headers,
			Cells:   make(map[string]any, len(headers)),
		}
		blank := true
		for i, header := range headers {
			var cell any
			if i < len(cells) {
				cell = coerceCell(cells[i])
			}
			row.Cells[header] = cell
			if cell != nil {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func headerNames(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	anonymous := 0
	for i, h := range headerRow {
		h = strings.TrimSpace(h)
		if h == "" {
			h = placeholderName(anonymous)
			anonymous++
		}
		headers[i] = h
	}
	return headers
}

// coerceCell maps a raw cell to the parsed-row contract: nil for blanks,
// float64 for numeric values, string otherwise.
func coerceCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
