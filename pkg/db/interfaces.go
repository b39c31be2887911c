package db

import "context"

// Store defines the interface for plan-run persistence operations
type Store interface {
	InsertPlanRun(ctx context.Context, run *PlanRun, departments []DepartmentResultRecord) error
	GetPlanRuns(ctx context.Context) ([]PlanRun, error)
	GetDepartmentResults(ctx context.Context, runID string) ([]DepartmentResultRecord, error)
}
