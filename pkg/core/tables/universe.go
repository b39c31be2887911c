package tables

import (
	"fmt"
	"slices"
	"strings"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// headerVocabulary is the fixed set of cell values (lowercased) whose
// presence in the first row marks it as a header row.
var headerVocabulary = []string{
	"department",
	"audit risk category",
	"s.no",
	"name of auditable audit",
}

// The four fields the engine needs are read from fixed zero-indexed column
// positions, with or without a header row.
const (
	universeColDepartment = 3
	universeColSection    = 5
	universeColRating     = 7
	universeColCategory   = 8
)

// Universe is the normalized audit universe: the typed selection records the
// engine works on, plus the original rows and column names so the results
// table can reproduce the full input alongside the selection outcome.
type Universe struct {
	// Columns holds the detected header names, or generated Col_N names for
	// a headerless table.
	Columns []string

	// Rows are the original data rows, aligned index-for-index with Units.
	Rows RawTable

	Units []*model.AuditUnit
}

// BuildUniverse normalizes raw audit-universe rows into selection records.
// Every unit starts unselected with 0 assigned days.
func BuildUniverse(raw RawTable) *Universe {
	width := 0
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}

	rows := raw
	var columns []string
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		for _, c := range rows[0] {
			columns = append(columns, strings.TrimSpace(c))
		}
		for len(columns) < width {
			columns = append(columns, fmt.Sprintf("Col_%d", len(columns)+1))
		}
		rows = rows[1:]
	} else {
		for i := 0; i < width; i++ {
			columns = append(columns, fmt.Sprintf("Col_%d", i+1))
		}
	}

	units := make([]*model.AuditUnit, 0, len(rows))
	for i, row := range rows {
		units = append(units, &model.AuditUnit{
			Index:        i,
			Department:   strings.TrimSpace(cell(row, universeColDepartment)),
			Section:      strings.TrimSpace(cell(row, universeColSection)),
			RiskCategory: model.ParseRiskCategory(cell(row, universeColCategory)),
			Rating:       floatOrZero(cell(row, universeColRating)),
		})
	}

	return &Universe{Columns: columns, Rows: rows, Units: units}
}

func isHeaderRow(row []string) bool {
	for _, c := range row {
		if slices.Contains(headerVocabulary, strings.ToLower(strings.TrimSpace(c))) {
			return true
		}
	}
	return false
}
