package model

import "strings"

// RiskCategory is the risk tier assigned to an audit unit by the upstream
// scoring pipeline.
type RiskCategory string

const (
	RiskHigh    RiskCategory = "High"
	RiskMedium  RiskCategory = "Medium"
	RiskLow     RiskCategory = "Low"
	RiskUnknown RiskCategory = "Unknown"
)

func (r RiskCategory) IsValid() bool {
	return r == RiskHigh || r == RiskMedium || r == RiskLow || r == RiskUnknown
}

// ParseRiskCategory normalizes raw cell text (case and surrounding space)
// into a risk tier. Anything outside the three known tiers is Unknown.
func ParseRiskCategory(raw string) RiskCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return RiskHigh
	case "medium":
		return RiskMedium
	case "low":
		return RiskLow
	default:
		return RiskUnknown
	}
}

// AllocationParameter holds one department's allocation inputs from the
// parameters table. Records are read-only once built.
type AllocationParameter struct {
	Department string

	// PercentageOfBudget is this department's share of the total mandays
	// (0-100). A department with 0 is skipped entirely, never an error.
	// The aggregate across departments is not validated.
	PercentageOfBudget float64

	// Manday cost of auditing one unit in each tier.
	HighDays   float64
	MediumDays float64
	LowDays    float64

	// Share of the department budget reserved for each tier (0-100).
	HighPct float64
	MedPct  float64
	LowPct  float64
}

// AuditUnit is a single auditable entity eligible for selection.
//
// Index is the ingestion-order identifier and doubles as the stable
// tie-break key when ratings are equal. A unit is mutated at most once per
// run: Selected/AssignedDays flip from false/0 to true/cost and are never
// reset. The unit set is fixed at load time.
type AuditUnit struct {
	Index        int
	Department   string
	Section      string
	RiskCategory RiskCategory
	Rating       float64
	Selected     bool
	AssignedDays float64
}

// DepartmentResult is the derived, read-only allocation outcome for one
// department.
type DepartmentResult struct {
	Department     string
	TargetMandays  float64
	UsedMandays    float64
	UtilizationPct float64
}

// CategoryCount is one crosstab row, zero-filled over the three tiers so a
// group with no selections in a tier still reports an explicit 0.
type CategoryCount struct {
	Key    string
	High   int
	Medium int
	Low    int
}

// Total returns the selected-unit count across all three tiers.
func (c CategoryCount) Total() int {
	return c.High + c.Medium + c.Low
}

// RunSummary is the machine-readable output payload of one allocation run.
type RunSummary struct {
	TotalMandays       float64
	MandaysAllocated   float64
	MandaysUsed        float64
	OverallUtilization float64
	SelectedUnits      int
	RiskBreakdown      map[RiskCategory]int
	Departments        []DepartmentResult
	SectionAnalysis    []CategoryCount
	DepartmentAnalysis []CategoryCount
}
