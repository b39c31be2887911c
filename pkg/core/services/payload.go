package services

import "github.com/auditops/manday-planner/pkg/core/model"

// SummaryPayload is the machine-readable run summary served over the API.
// Key casing matches the established report format consumed downstream.
type SummaryPayload struct {
	TotalMandays       float64         `json:"total_mandays"`
	MandaysAllocated   float64         `json:"total_mandays_allocated"`
	MandaysUsed        float64         `json:"total_mandays_used"`
	OverallUtilization float64         `json:"overall_utilization"`
	SelectedUnits      int             `json:"selected_units"`
	RiskBreakdown      map[string]int  `json:"risk_breakdown"`
	DepartmentSummary  []DepartmentRow `json:"department_summary"`
	SectionAnalysis    []SectionRow    `json:"section_analysis"`
}

// DepartmentRow mirrors the Department Summary sheet columns.
type DepartmentRow struct {
	Department       string  `json:"Department"`
	MandaysAllocated float64 `json:"Mandays_Allocated"`
	MandaysUsed      float64 `json:"Mandays_Used"`
	UtilizationPct   float64 `json:"Utilization(%)"`
}

// SectionRow mirrors the Section Analysis sheet columns.
type SectionRow struct {
	Section string `json:"Section"`
	High    int    `json:"High"`
	Medium  int    `json:"Medium"`
	Low     int    `json:"Low"`
}

// BuildSummaryPayload converts a run summary into the wire payload.
func BuildSummaryPayload(summary model.RunSummary) SummaryPayload {
	breakdown := make(map[string]int, len(summary.RiskBreakdown))
	for category, count := range summary.RiskBreakdown {
		breakdown[string(category)] = count
	}

	departments := make([]DepartmentRow, 0, len(summary.Departments))
	for _, dept := range summary.Departments {
		departments = append(departments, DepartmentRow{
			Department:       dept.Department,
			MandaysAllocated: dept.TargetMandays,
			MandaysUsed:      dept.UsedMandays,
			UtilizationPct:   dept.UtilizationPct,
		})
	}

	sections := make([]SectionRow, 0, len(summary.SectionAnalysis))
	for _, row := range summary.SectionAnalysis {
		sections = append(sections, SectionRow{
			Section: row.Key,
			High:    row.High,
			Medium:  row.Medium,
			Low:     row.Low,
		})
	}

	return SummaryPayload{
		TotalMandays:       summary.TotalMandays,
		MandaysAllocated:   summary.MandaysAllocated,
		MandaysUsed:        summary.MandaysUsed,
		OverallUtilization: summary.OverallUtilization,
		SelectedUnits:      summary.SelectedUnits,
		RiskBreakdown:      breakdown,
		DepartmentSummary:  departments,
		SectionAnalysis:    sections,
	}
}
