package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/auditops/manday-planner/pkg/db"
)

// InsertPlanRun inserts a run and its department results in one transaction
func (d *DB) InsertPlanRun(ctx context.Context, run *db.PlanRun, departments []db.DepartmentResultRecord) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	runSQL, runArgs, err := psql.Insert("plan_runs").
		Columns("id", "source_file", "total_mandays", "mandays_allocated",
			"mandays_used", "overall_utilization", "selected_units").
		Values(run.ID, run.SourceFile, run.TotalMandays, run.MandaysAllocated,
			run.MandaysUsed, run.OverallUtilization, run.SelectedUnits).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build plan run insert: %w", err)
	}

	if _, err := tx.Exec(ctx, runSQL, runArgs...); err != nil {
		return fmt.Errorf("failed to insert plan run: %w", err)
	}

	for _, dept := range departments {
		deptSQL, deptArgs, err := psql.Insert("plan_department_results").
			Columns("id", "run_id", "department", "target_mandays", "used_mandays",
				"utilization_pct", "high_units", "medium_units", "low_units").
			Values(dept.ID, run.ID, dept.Department, dept.TargetMandays, dept.UsedMandays,
				dept.UtilizationPct, dept.HighUnits, dept.MediumUnits, dept.LowUnits).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build department result insert: %w", err)
		}

		if _, err := tx.Exec(ctx, deptSQL, deptArgs...); err != nil {
			return fmt.Errorf("failed to insert department result: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPlanRuns retrieves all persisted runs, newest first
func (d *DB) GetPlanRuns(ctx context.Context) ([]db.PlanRun, error) {
	query, args, err := psql.Select("id", "source_file", "total_mandays", "mandays_allocated",
		"mandays_used", "overall_utilization", "selected_units", "created_at").
		From("plan_runs").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build plan runs query: %w", err)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan runs: %w", err)
	}
	defer rows.Close()

	var runs []db.PlanRun
	for rows.Next() {
		var r db.PlanRun
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.TotalMandays, &r.MandaysAllocated,
			&r.MandaysUsed, &r.OverallUtilization, &r.SelectedUnits, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan runs: %w", err)
	}

	return runs, nil
}

// GetDepartmentResults retrieves the department results for one run
func (d *DB) GetDepartmentResults(ctx context.Context, runID string) ([]db.DepartmentResultRecord, error) {
	query, args, err := psql.Select("id", "run_id", "department", "target_mandays", "used_mandays",
		"utilization_pct", "high_units", "medium_units", "low_units").
		From("plan_department_results").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("department").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build department results query: %w", err)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query department results: %w", err)
	}
	defer rows.Close()

	var results []db.DepartmentResultRecord
	for rows.Next() {
		var rec db.DepartmentResultRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Department, &rec.TargetMandays,
			&rec.UsedMandays, &rec.UtilizationPct, &rec.HighUnits, &rec.MediumUnits,
			&rec.LowUnits); err != nil {
			return nil, fmt.Errorf("failed to scan department result: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department results: %w", err)
	}

	return results, nil
}
