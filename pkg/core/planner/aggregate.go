package planner

import (
	"sort"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// Aggregate computes the run summary from the fully-selected universe and
// the per-department tallies: global totals, the risk-category histogram,
// and the section and department crosstabs.
func Aggregate(universe []*model.AuditUnit, tallies []DepartmentTally, totalMandays float64) model.RunSummary {
	var allocated, used float64
	departments := make([]model.DepartmentResult, 0, len(tallies))
	for _, t := range tallies {
		allocated += t.TargetMandays
		used += t.UsedMandays
		departments = append(departments, model.DepartmentResult{
			Department:     t.Department,
			TargetMandays:  t.TargetMandays,
			UsedMandays:    t.UsedMandays,
			UtilizationPct: t.UtilizationPct,
		})
	}

	selected := 0
	breakdown := make(map[model.RiskCategory]int)
	for _, unit := range universe {
		if !unit.Selected {
			continue
		}
		selected++
		category := unit.RiskCategory
		if !category.IsValid() {
			category = model.RiskUnknown
		}
		breakdown[category]++
	}

	return model.RunSummary{
		TotalMandays:       totalMandays,
		MandaysAllocated:   allocated,
		MandaysUsed:        used,
		OverallUtilization: utilizationPct(used, allocated),
		SelectedUnits:      selected,
		RiskBreakdown:      breakdown,
		Departments:        departments,
		SectionAnalysis:    crosstab(universe, func(u *model.AuditUnit) string { return u.Section }),
		DepartmentAnalysis: crosstab(universe, func(u *model.AuditUnit) string { return u.Department }),
	}
}

// crosstab counts selected units grouped by key and risk tier. Rows are
// sorted by key; every row carries explicit High/Medium/Low counts even when
// a tier had zero selections in that group.
func crosstab(universe []*model.AuditUnit, key func(*model.AuditUnit) string) []model.CategoryCount {
	byKey := make(map[string]*model.CategoryCount)
	for _, unit := range universe {
		if !unit.Selected {
			continue
		}
		k := key(unit)
		row, ok := byKey[k]
		if !ok {
			row = &model.CategoryCount{Key: k}
			byKey[k] = row
		}
		switch unit.RiskCategory {
		case model.RiskHigh:
			row.High++
		case model.RiskMedium:
			row.Medium++
		case model.RiskLow:
			row.Low++
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.CategoryCount, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *byKey[k])
	}
	return rows
}
