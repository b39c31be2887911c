package tables

import (
	"errors"
	"strings"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// ErrNoTotalMandays means the parameters table contains no numeric value in
// its second column, so the grand total of mandays cannot be detected.
// Nothing downstream can proceed without it.
var ErrNoTotalMandays = errors.New("no numeric value found in parameters column 1 to detect total mandays")

// Positional columns of the parameters table:
// [Department, Percentage, HighDays, MediumDays, LowDays, HighPct, MedPct, LowPct]
const (
	paramColDepartment = 0
	paramColPercentage = 1
	paramColHighDays   = 2
	paramColMediumDays = 3
	paramColLowDays    = 4
	paramColHighPct    = 5
	paramColMedPct     = 6
	paramColLowPct     = 7
)

// BuildParameters normalizes raw parameter rows into typed allocation
// targets and extracts the grand total of mandays for the run.
//
// The total is the last row (in original order) whose second column parses
// as numeric; rows after it are discarded and rows before it are candidate
// parameter rows. A leading header row (first cell starting with
// "department", case-insensitive) is dropped, as is any candidate row whose
// Percentage cell is non-numeric (blank separators).
func BuildParameters(raw RawTable) ([]model.AllocationParameter, float64, error) {
	totalIdx := -1
	for i, row := range raw {
		if _, ok := parseFloat(cell(row, paramColPercentage)); ok {
			totalIdx = i
		}
	}
	if totalIdx < 0 {
		return nil, 0, ErrNoTotalMandays
	}
	totalMandays := floatOrZero(cell(raw[totalIdx], paramColPercentage))

	candidates := raw[:totalIdx]
	if len(candidates) > 0 {
		first := strings.ToLower(strings.TrimSpace(cell(candidates[0], paramColDepartment)))
		if strings.HasPrefix(first, "department") {
			candidates = candidates[1:]
		}
	}

	params := make([]model.AllocationParameter, 0, len(candidates))
	for _, row := range candidates {
		if _, ok := parseFloat(cell(row, paramColPercentage)); !ok {
			continue
		}
		params = append(params, model.AllocationParameter{
			Department:         strings.TrimSpace(cell(row, paramColDepartment)),
			PercentageOfBudget: floatOrZero(cell(row, paramColPercentage)),
			HighDays:           floatOrZero(cell(row, paramColHighDays)),
			MediumDays:         floatOrZero(cell(row, paramColMediumDays)),
			LowDays:            floatOrZero(cell(row, paramColLowDays)),
			HighPct:            floatOrZero(cell(row, paramColHighPct)),
			MedPct:             floatOrZero(cell(row, paramColMedPct)),
			LowPct:             floatOrZero(cell(row, paramColLowPct)),
		})
	}

	return params, totalMandays, nil
}
