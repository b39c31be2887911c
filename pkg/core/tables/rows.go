package tables

import (
	"strconv"
	"strings"
)

// RawTable is one parsed sheet: rows of text cells, exactly as a workbook or
// CSV reader yields them. Rows may have uneven widths.
type RawTable [][]string

// PruneEmptyRows drops rows whose cells are all blank. Workbooks routinely
// carry trailing or separator rows that would otherwise turn into phantom
// records.
func PruneEmptyRows(raw RawTable) RawTable {
	pruned := make(RawTable, 0, len(raw))
	for _, row := range raw {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			pruned = append(pruned, row)
		}
	}
	return pruned
}

// cell returns the value at column idx, or "" when the row is too short.
// Rows beyond the available column count yield a missing value, never an
// out-of-range failure.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// floatOrZero coerces a cell to a number with a 0 fallback. A single bad
// cell never fails the whole table.
func floatOrZero(s string) float64 {
	v, _ := parseFloat(s)
	return v
}
