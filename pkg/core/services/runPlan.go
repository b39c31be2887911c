package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auditops/manday-planner/internal/config"
	"github.com/auditops/manday-planner/pkg/core/model"
	"github.com/auditops/manday-planner/pkg/core/planner"
	"github.com/auditops/manday-planner/pkg/core/tables"
	"github.com/auditops/manday-planner/pkg/db"
	"github.com/auditops/manday-planner/pkg/workbook"
)

// RunPlanInput describes one allocation run. Exactly one input source must be
// set: a workbook path, workbook bytes, or a params+universe CSV pair.
type RunPlanInput struct {
	WorkbookPath  string
	WorkbookBytes []byte
	ParamsCSV     string
	UniverseCSV   string

	// SourceName labels the run in artifacts and persistence; it also
	// provides the stem of the artifact file names.
	SourceName string

	// OutputDir overrides the configured artifact directory when set.
	OutputDir string

	// Persist controls whether the run is recorded in the store.
	Persist bool
}

// RunPlanResult contains the run outcome plus the artifact locations.
type RunPlanResult struct {
	Summary      model.RunSummary
	TotalMandays float64
	Departments  []planner.DepartmentTally
	Trail        []string
	RunID        string

	ResultsName string
	LogName     string
	ResultsPath string
	LogPath     string
}

// RunPlan orchestrates one allocation run: ingest the two input tables, plan,
// write the results workbook and audit log, and record the run. The store may
// be nil when no database is configured; persistence failures are reported
// and never fail a completed run.
func RunPlan(
	ctx context.Context,
	store db.Store,
	logger *zap.Logger,
	cfg *config.Config,
	input RunPlanInput,
) (*RunPlanResult, error) {
	logger.Debug("Starting plan run", zap.String("source", input.SourceName))

	paramsRaw, universeRaw, err := ingest(cfg, input)
	if err != nil {
		return nil, err
	}

	params, totalMandays, err := tables.BuildParameters(paramsRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to build parameters table: %w", err)
	}
	logger.Debug("Parameters table built",
		zap.Int("departments", len(params)),
		zap.Float64("total_mandays", totalMandays))

	universe := tables.BuildUniverse(universeRaw)
	logger.Debug("Audit universe built", zap.Int("units", len(universe.Units)))

	outcome, err := planner.Plan(planner.PlanConfig{
		Parameters:   params,
		TotalMandays: totalMandays,
		Universe:     universe.Units,
	})
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}
	logger.Info("Allocation completed",
		zap.Int("selected_units", outcome.Summary.SelectedUnits),
		zap.Float64("overall_utilization", outcome.Summary.OverallUtilization))

	outputDir := cfg.OutputDir
	if input.OutputDir != "" {
		outputDir = input.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	resultsName, logName := workbook.ResultFileNames(sourceStem(input.SourceName), now)
	resultsPath := filepath.Join(outputDir, resultsName)
	logPath := filepath.Join(outputDir, logName)

	if err := workbook.WriteResults(resultsPath, universe, outcome.Summary); err != nil {
		return nil, fmt.Errorf("failed to write results workbook: %w", err)
	}
	if err := workbook.WriteLog(logPath, input.SourceName, totalMandays, outcome.Trail, outcome.Summary, now); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}
	logger.Info("Artifacts written",
		zap.String("results", resultsPath),
		zap.String("log", logPath))

	result := &RunPlanResult{
		Summary:      outcome.Summary,
		TotalMandays: totalMandays,
		Departments:  outcome.Departments,
		Trail:        outcome.Trail,
		ResultsName:  resultsName,
		LogName:      logName,
		ResultsPath:  resultsPath,
		LogPath:      logPath,
	}

	if store != nil && input.Persist {
		result.RunID = persistRun(ctx, store, logger, input.SourceName, outcome)
	}

	return result, nil
}

// persistRun records the run, returning the run ID or "" when the insert
// fails. The run itself has already succeeded at this point.
func persistRun(ctx context.Context, store db.Store, logger *zap.Logger, sourceName string, outcome *planner.PlanOutcome) string {
	run := &db.PlanRun{
		ID:                 uuid.New().String(),
		SourceFile:         sourceName,
		TotalMandays:       outcome.Summary.TotalMandays,
		MandaysAllocated:   outcome.Summary.MandaysAllocated,
		MandaysUsed:        outcome.Summary.MandaysUsed,
		OverallUtilization: outcome.Summary.OverallUtilization,
		SelectedUnits:      outcome.Summary.SelectedUnits,
	}

	records := make([]db.DepartmentResultRecord, 0, len(outcome.Departments))
	for _, tally := range outcome.Departments {
		records = append(records, db.DepartmentResultRecord{
			ID:             uuid.New().String(),
			RunID:          run.ID,
			Department:     tally.Department,
			TargetMandays:  tally.TargetMandays,
			UsedMandays:    tally.UsedMandays,
			UtilizationPct: tally.UtilizationPct,
			HighUnits:      tally.HighUnits,
			MediumUnits:    tally.MediumUnits,
			LowUnits:       tally.LowUnits,
		})
	}

	if err := store.InsertPlanRun(ctx, run, records); err != nil {
		logger.Warn("Failed to persist run", zap.Error(err))
		return ""
	}

	logger.Info("Run persisted", zap.String("run_id", run.ID))
	return run.ID
}

// ingest resolves the input source into the two raw tables.
func ingest(cfg *config.Config, input RunPlanInput) (tables.RawTable, tables.RawTable, error) {
	switch {
	case len(input.WorkbookBytes) > 0:
		tbls, err := workbook.ReadBytes(input.WorkbookBytes, cfg.ParamsSheetIndex, cfg.UniverseSheetIndex)
		if err != nil {
			return nil, nil, err
		}
		return tbls.Parameters, tbls.Universe, nil

	case input.WorkbookPath != "":
		tbls, err := workbook.Read(input.WorkbookPath, cfg.ParamsSheetIndex, cfg.UniverseSheetIndex)
		if err != nil {
			return nil, nil, err
		}
		return tbls.Parameters, tbls.Universe, nil

	case input.ParamsCSV != "" && input.UniverseCSV != "":
		params, err := tables.LoadCSV(input.ParamsCSV)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load parameters CSV: %w", err)
		}
		universe, err := tables.LoadCSV(input.UniverseCSV)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load universe CSV: %w", err)
		}
		return params, universe, nil

	default:
		return nil, nil, fmt.Errorf("no input provided: need a workbook or a params+universe CSV pair")
	}
}

// sourceStem strips the extension from the source name for artifact naming.
func sourceStem(sourceName string) string {
	base := filepath.Base(sourceName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "audit_plan"
	}
	return stem
}
