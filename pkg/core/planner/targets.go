package planner

import (
	"math"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// Targets holds the computed manday budgets for one department.
type Targets struct {
	Department string

	// Total is the department's share of the run's grand total.
	Total float64

	// Per-tier budgets carved out of Total.
	High   float64
	Medium float64
	Low    float64
}

// ComputeTargets derives the department and per-tier manday budgets from the
// allocation percentages.
//
// Rounding is half-to-even on the floating result. Fractional mandays are
// not tracked, so small cumulative drift across departments is expected.
func ComputeTargets(p model.AllocationParameter, totalMandays float64) Targets {
	deptTotal := math.RoundToEven(totalMandays * p.PercentageOfBudget / 100)
	return Targets{
		Department: p.Department,
		Total:      deptTotal,
		High:       math.RoundToEven(deptTotal * p.HighPct / 100),
		Medium:     math.RoundToEven(deptTotal * p.MedPct / 100),
		Low:        math.RoundToEven(deptTotal * p.LowPct / 100),
	}
}

// roundTo1 rounds a percentage to one decimal place, half-to-even like the
// budget rounding above.
func roundTo1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// utilizationPct returns used/target as a percentage rounded to one decimal,
// or 0 when the target is 0 (never a division error).
func utilizationPct(used, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return roundTo1(used / target * 100)
}
