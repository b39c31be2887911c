package db

import "time"

// PlanRun is one persisted allocation run.
type PlanRun struct {
	ID                 string
	SourceFile         string
	TotalMandays       float64
	MandaysAllocated   float64
	MandaysUsed        float64
	OverallUtilization float64
	SelectedUnits      int
	CreatedAt          time.Time
}

// DepartmentResultRecord is one department's persisted outcome within a run.
type DepartmentResultRecord struct {
	ID             string
	RunID          string
	Department     string
	TargetMandays  float64
	UsedMandays    float64
	UtilizationPct float64
	HighUnits      int
	MediumUnits    int
	LowUnits       int
}
