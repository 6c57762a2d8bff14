// Package sheet turns vendor spreadsheets into ordered header->cell records
// and heuristically locates the brand / item / sale price columns in them.
// The vendor renames and reorders columns between file revisions, so nothing
// here assumes a fixed layout.
package sheet

import (
	"fmt"
	"strings"
)

// PlaceholderPrefix names columns whose header cell is blank: the first one
// becomes "__EMPTY", the second "__EMPTY_1" and so on. The vendor's layout
// habitually puts the item name in the first unlabeled column.
const PlaceholderPrefix = "__EMPTY"

// Row is one parsed spreadsheet row. Cells maps header to nil (blank cell),
// string, or float64 (numeric cells stay numeric so price heuristics can tell
// a 0.2 fraction from the text "20%"). Headers preserves spreadsheet column
// order for first-match scans.
type Row struct {
	Headers []string
	Cells   map[string]any
}

// Value returns the cell under the given header, nil when blank or absent.
func (r Row) Value(header string) any {
	return r.Cells[header]
}

func placeholderName(n int) string {
	if n == 0 {
		return PlaceholderPrefix
	}
	return fmt.Sprintf("%s_%d", PlaceholderPrefix, n)
}

// RowsFromTable builds Rows from an in-memory table whose first row is the
// header row. Used for sources that already deliver typed cells, like the
// Sheets API. Blank string cells come through as nil.
func RowsFromTable(table [][]any) []Row {
	if len(table) == 0 {
		return nil
	}

	rawHeaders := make([]string, len(table[0]))
	for i, cell := range table[0] {
		if s, ok := cell.(string); ok {
			rawHeaders[i] = s
		} else if cell != nil {
			rawHeaders[i] = fmt.Sprint(cell)
		}
	}
	headers := headerNames(rawHeaders)

	rows := make([]Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := Row{
			Headers: headers,
			Cells:   make(map[string]any, len(headers)),
		}
		blank := true
		for i, header := range headers {
			var cell any
			if i < len(cells) {
				cell = cells[i]
				if s, ok := cell.(string); ok {
					s = strings.TrimSpace(s)
					if s == "" {
						cell = nil
					} else {
						cell = s
					}
				}
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
	return rows
}
