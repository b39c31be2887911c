package planner

import (
	"strings"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// PlanConfig contains the inputs for one allocation run.
type PlanConfig struct {
	// Parameters are the department allocation parameters, in table order.
	Parameters []model.AllocationParameter

	// TotalMandays is the grand total detected from the parameters table.
	TotalMandays float64

	// Universe is the working copy of audit units. The run owns it
	// exclusively: selection writes Selected/AssignedDays onto these
	// records, and no concurrent run may share them.
	Universe []*model.AuditUnit
}

// DepartmentTally records one department's allocation outcome, including the
// per-tier unit counts for the trail and summary.
type DepartmentTally struct {
	Department     string
	TargetMandays  float64
	UsedMandays    float64
	UtilizationPct float64
	HighUnits      int
	MediumUnits    int
	LowUnits       int
}

// PlanOutcome is the result of one allocation run.
type PlanOutcome struct {
	Summary     model.RunSummary
	Departments []DepartmentTally
	Trail       []string
}

// Plan executes one allocation run: derive each department's targets, select
// units tier by tier, and aggregate the results. It is a single-threaded,
// synchronous batch computation over the snapshot in cfg — one pass
// proportional to the number of units and departments.
func Plan(cfg PlanConfig) (*PlanOutcome, error) {
	trail := &Trail{}
	tallies := make([]DepartmentTally, 0, len(cfg.Parameters))

	for _, param := range cfg.Parameters {
		dept := strings.TrimSpace(param.Department)
		if param.PercentageOfBudget == 0 {
			continue
		}

		targets := ComputeTargets(param, cfg.TotalMandays)
		pool := unitsForDepartment(cfg.Universe, dept)

		if len(pool) == 0 {
			// Reported condition, not an error: the target still counts
			// toward the run total with zero usage.
			trail.Linef("WARNING: %s: no matching audit units found", dept)
			tallies = append(tallies, DepartmentTally{
				Department:    dept,
				TargetMandays: targets.Total,
			})
			continue
		}

		highUnits, usedHigh := selectUnits(unitsForTier(pool, model.RiskHigh), targets.High, param.HighDays, model.RiskHigh, dept, trail)
		medUnits, usedMed := selectUnits(unitsForTier(pool, model.RiskMedium), targets.Medium, param.MediumDays, model.RiskMedium, dept, trail)
		lowUnits, usedLow := selectUnits(unitsForTier(pool, model.RiskLow), targets.Low, param.LowDays, model.RiskLow, dept, trail)

		used := usedHigh + usedMed + usedLow
		tally := DepartmentTally{
			Department:     dept,
			TargetMandays:  targets.Total,
			UsedMandays:    used,
			UtilizationPct: utilizationPct(used, targets.Total),
			HighUnits:      highUnits,
			MediumUnits:    medUnits,
			LowUnits:       lowUnits,
		}
		tallies = append(tallies, tally)

		trail.Linef("%-10s | Target=%5.0f | Used=%5.0f | Util=%5.1f%% | H:%d M:%d L:%d",
			dept, tally.TargetMandays, tally.UsedMandays, tally.UtilizationPct,
			tally.HighUnits, tally.MediumUnits, tally.LowUnits)
	}

	summary := Aggregate(cfg.Universe, tallies, cfg.TotalMandays)

	return &PlanOutcome{
		Summary:     summary,
		Departments: tallies,
		Trail:       trail.Lines(),
	}, nil
}

// unitsForDepartment filters the universe by department, case-insensitively.
// Departments whose names differ only by case are merged by this rule.
func unitsForDepartment(universe []*model.AuditUnit, department string) []*model.AuditUnit {
	var pool []*model.AuditUnit
	for _, unit := range universe {
		if strings.EqualFold(unit.Department, department) {
			pool = append(pool, unit)
		}
	}
	return pool
}

// unitsForTier filters a department pool by risk tier. Tier pools are
// disjoint partitions of the department pool, so no unit can be selected
// twice in one run.
func unitsForTier(pool []*model.AuditUnit, tier model.RiskCategory) []*model.AuditUnit {
	var subset []*model.AuditUnit
	for _, unit := range pool {
		if unit.RiskCategory == tier {
			subset = append(subset, unit)
		}
	}
	return subset
}
