package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/auditops/manday-planner/internal/config"
	"github.com/auditops/manday-planner/pkg/core/model"
	"github.com/auditops/manday-planner/pkg/db"
)

// fakeStore records inserted runs and can be told to fail.
type fakeStore struct {
	runs        []*db.PlanRun
	departments [][]db.DepartmentResultRecord
	failInsert  bool
}

func (s *fakeStore) InsertPlanRun(ctx context.Context, run *db.PlanRun, departments []db.DepartmentResultRecord) error {
	if s.failInsert {
		return errors.New("store unavailable")
	}
	s.runs = append(s.runs, run)
	s.departments = append(s.departments, departments)
	return nil
}

func (s *fakeStore) GetPlanRuns(ctx context.Context) ([]db.PlanRun, error) {
	return nil, nil
}

func (s *fakeStore) GetDepartmentResults(ctx context.Context, runID string) ([]db.DepartmentResultRecord, error) {
	return nil, nil
}

func buildTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Parameters"))
	_, err := f.NewSheet("Universe")
	require.NoError(t, err)

	paramRows := [][]interface{}{
		{"Department", "Percentage", "High", "Medium", "Low", "High%", "Med%", "Low%"},
		{"Finance", 50, 20, 10, 5, 40, 30, 30},
		{"Total", 1000},
	}
	for i, row := range paramRows {
		r := row
		require.NoError(t, f.SetSheetRow("Parameters", fmt.Sprintf("A%d", i+1), &r))
	}

	// 15 High-rated Finance units at fixed field positions.
	header := []interface{}{"S.No", "Name of Auditable Audit", "", "Department", "", "Section", "", "Rating", "Audit Risk Category"}
	require.NoError(t, f.SetSheetRow("Universe", "A1", &header))
	for i := 0; i < 15; i++ {
		row := []interface{}{i + 1, fmt.Sprintf("Unit %d", i+1), "", "Finance", "", "Treasury", "", 15 - i, "High"}
		require.NoError(t, f.SetSheetRow("Universe", fmt.Sprintf("A%d", i+2), &row))
	}

	path := filepath.Join(t.TempDir(), "audit_plan.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunPlan_Workbook(t *testing.T) {
	path := buildTestWorkbook(t)
	store := &fakeStore{}

	result, err := RunPlan(context.Background(), store, zap.NewNop(), testConfig(t), RunPlanInput{
		WorkbookPath: path,
		SourceName:   "audit_plan.xlsx",
		Persist:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.TotalMandays)
	require.Len(t, result.Departments, 1)
	assert.Equal(t, 500.0, result.Departments[0].TargetMandays)
	assert.Equal(t, 200.0, result.Departments[0].UsedMandays)
	assert.Equal(t, 10, result.Departments[0].HighUnits)
	assert.NotEmpty(t, result.Trail)

	assert.FileExists(t, result.ResultsPath)
	assert.FileExists(t, result.LogPath)
	assert.Contains(t, result.ResultsName, "audit_plan_Results_")
	assert.Contains(t, result.LogName, "audit_plan_Log_")

	require.Len(t, store.runs, 1)
	assert.Equal(t, result.RunID, store.runs[0].ID)
	assert.Equal(t, "audit_plan.xlsx", store.runs[0].SourceFile)
	require.Len(t, store.departments[0], 1)
	assert.Equal(t, "Finance", store.departments[0][0].Department)
}

func TestRunPlan_WorkbookBytes(t *testing.T) {
	path := buildTestWorkbook(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := RunPlan(context.Background(), nil, zap.NewNop(), testConfig(t), RunPlanInput{
		WorkbookBytes: data,
		SourceName:    "upload.xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Summary.SelectedUnits)
}

func TestRunPlan_CSVInputs(t *testing.T) {
	dir := t.TempDir()
	paramsPath := filepath.Join(dir, "params.csv")
	universePath := filepath.Join(dir, "universe.csv")

	require.NoError(t, os.WriteFile(paramsPath, []byte(
		"Department,Percentage,High,Medium,Low,High%,Med%,Low%\n"+
			"Finance,50,20,10,5,40,30,30\n"+
			"Total,1000\n"), 0644))
	require.NoError(t, os.WriteFile(universePath, []byte(
		"1,Treasury ops,,Finance,,Treasury,,9.1,High\n"+
			"2,Payroll review,,Finance,,Payroll,,6.4,Medium\n"), 0644))

	result, err := RunPlan(context.Background(), nil, zap.NewNop(), testConfig(t), RunPlanInput{
		ParamsCSV:   paramsPath,
		UniverseCSV: universePath,
		SourceName:  "params.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.TotalMandays)
	require.Len(t, result.Departments, 1)
	assert.Equal(t, "Finance", result.Departments[0].Department)
}

func TestRunPlan_NoInput(t *testing.T) {
	_, err := RunPlan(context.Background(), nil, zap.NewNop(), testConfig(t), RunPlanInput{
		SourceName: "none",
	})
	assert.ErrorContains(t, err, "no input provided")
}

func TestRunPlan_NoTotalMandaysProducesNoArtifacts(t *testing.T) {
	dir := t.TempDir()
	paramsPath := filepath.Join(dir, "params.csv")
	universePath := filepath.Join(dir, "universe.csv")
	require.NoError(t, os.WriteFile(paramsPath, []byte("Department,Percentage\nFinance,abc\n"), 0644))
	require.NoError(t, os.WriteFile(universePath, []byte("1,x,,Finance,,Treasury,,5,High\n"), 0644))

	cfg := testConfig(t)
	_, err := RunPlan(context.Background(), nil, zap.NewNop(), cfg, RunPlanInput{
		ParamsCSV:   paramsPath,
		UniverseCSV: universePath,
		SourceName:  "params.csv",
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunPlan_PersistFailureDoesNotFailRun(t *testing.T) {
	path := buildTestWorkbook(t)
	store := &fakeStore{failInsert: true}

	result, err := RunPlan(context.Background(), store, zap.NewNop(), testConfig(t), RunPlanInput{
		WorkbookPath: path,
		SourceName:   "audit_plan.xlsx",
		Persist:      true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.RunID)
	assert.FileExists(t, result.ResultsPath)
}

func TestRunPlan_NoPersistSkipsStore(t *testing.T) {
	path := buildTestWorkbook(t)
	store := &fakeStore{}

	_, err := RunPlan(context.Background(), store, zap.NewNop(), testConfig(t), RunPlanInput{
		WorkbookPath: path,
		SourceName:   "audit_plan.xlsx",
		Persist:      false,
	})
	require.NoError(t, err)
	assert.Empty(t, store.runs)
}

func TestSourceStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"audit_plan.xlsx", "audit_plan"},
		{"dir/audit_plan.xlsx", "audit_plan"},
		{"noext", "noext"},
		{"", "audit_plan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sourceStem(tt.in), "stem of %q", tt.in)
	}
}

func TestBuildSummaryPayload(t *testing.T) {
	summary := model.RunSummary{
		TotalMandays:       1000,
		MandaysAllocated:   500,
		MandaysUsed:        200,
		OverallUtilization: 40,
		SelectedUnits:      10,
		RiskBreakdown:      map[model.RiskCategory]int{model.RiskHigh: 10},
		Departments: []model.DepartmentResult{
			{Department: "Finance", TargetMandays: 500, UsedMandays: 200, UtilizationPct: 40},
		},
		SectionAnalysis: []model.CategoryCount{
			{Key: "Treasury", High: 10},
		},
	}

	payload := BuildSummaryPayload(summary)

	assert.Equal(t, 1000.0, payload.TotalMandays)
	assert.Equal(t, 10, payload.RiskBreakdown["High"])
	require.Len(t, payload.DepartmentSummary, 1)
	assert.Equal(t, 500.0, payload.DepartmentSummary[0].MandaysAllocated)
	require.Len(t, payload.SectionAnalysis, 1)
	assert.Equal(t, "Treasury", payload.SectionAnalysis[0].Section)
	assert.Equal(t, 10, payload.SectionAnalysis[0].High)
}
