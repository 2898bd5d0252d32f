// Package tabular converts tabular files between CSV and XLSX through a typed,
// format-neutral dataset.
package tabular

import (
	"fmt"
	"strconv"
)

// Dataset is an ordered table. Columns keeps the source column order and
// every row holds exactly len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]Cell
}

// NumRows returns the number of data rows, header excluded.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// normalizeHeader names blank columns "Unnamed: <index>" and disambiguates
// duplicates as "<name>.<n>", the way pandas labels them.
func normalizeHeader(raw []string) []string {
	columns := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			candidate := fmt.Sprintf("%s.%d", name, n)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				n++
				candidate = fmt.Sprintf("%s.%d", name, n)
			}
			seen[name] = n + 1
			name = candidate
		}
		seen[name] = max(seen[name], 1)
		columns[i] = name
	}
	return columns
}
