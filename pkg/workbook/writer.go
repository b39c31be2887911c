package workbook

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/auditops/manday-planner/pkg/core/model"
	"github.com/auditops/manday-planner/pkg/core/tables"
)

// Fill colors for the Selected column.
const (
	fillSelected   = "C6EFCE"
	fillUnselected = "FFF2CC"
)

const (
	sheetSelectedUnits   = "Selected Units"
	sheetDepartmentSumm  = "Department Summary"
	sheetSectionAnalysis = "Section Analysis"
	sheetDeptCategory    = "Dept Category Summary"
)

// ResultFileNames derives the timestamped artifact names for one run.
func ResultFileNames(stem string, now time.Time) (resultsName, logName string) {
	timestamp := now.UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_Results_%s.xlsx", stem, timestamp),
		fmt.Sprintf("%s_Log_%s.txt", stem, timestamp)
}

// WriteResults emits the results workbook: the full audit universe with the
// selection outcome appended, plus the three summary sheets.
func WriteResults(path string, universe *tables.Universe, summary model.RunSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSelectedUnits(f, universe); err != nil {
		return err
	}
	if err := writeDepartmentSummary(f, summary.Departments); err != nil {
		return err
	}
	if err := writeCrosstab(f, sheetSectionAnalysis, "Section", summary.SectionAnalysis, false); err != nil {
		return err
	}
	if err := writeCrosstab(f, sheetDeptCategory, "Department", summary.DepartmentAnalysis, true); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save results workbook: %w", err)
	}
	return nil
}

func writeSelectedUnits(f *excelize.File, universe *tables.Universe) error {
	if _, err := f.NewSheet(sheetSelectedUnits); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheetSelectedUnits, err)
	}

	selectedStyle, err := fillStyle(f, fillSelected)
	if err != nil {
		return err
	}
	unselectedStyle, err := fillStyle(f, fillUnselected)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(universe.Columns)+2)
	for _, c := range universe.Columns {
		header = append(header, c)
	}
	header = append(header, "Selected", "Party days")
	if err := setRow(f, sheetSelectedUnits, 1, header); err != nil {
		return err
	}

	selectedCol := len(universe.Columns) + 1
	for i, raw := range universe.Rows {
		unit := universe.Units[i]
		row := make([]interface{}, 0, len(universe.Columns)+2)
		for c := 0; c < len(universe.Columns); c++ {
			if c < len(raw) {
				row = append(row, raw[c])
			} else {
				row = append(row, "")
			}
		}
		if unit.Selected {
			row = append(row, "Yes", unit.AssignedDays)
		} else {
			row = append(row, "No", 0.0)
		}
		if err := setRow(f, sheetSelectedUnits, i+2, row); err != nil {
			return err
		}

		cell, err := excelize.CoordinatesToCellName(selectedCol, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell coordinates: %w", err)
		}
		style := unselectedStyle
		if unit.Selected {
			style = selectedStyle
		}
		if err := f.SetCellStyle(sheetSelectedUnits, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style cell %s: %w", cell, err)
		}
	}

	return nil
}

func writeDepartmentSummary(f *excelize.File, departments []model.DepartmentResult) error {
	if _, err := f.NewSheet(sheetDepartmentSumm); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheetDepartmentSumm, err)
	}

	header := []interface{}{"Department", "Mandays_Allocated", "Mandays_Used", "Utilization(%)"}
	if err := setRow(f, sheetDepartmentSumm, 1, header); err != nil {
		return err
	}

	for i, dept := range departments {
		row := []interface{}{dept.Department, dept.TargetMandays, dept.UsedMandays, dept.UtilizationPct}
		if err := setRow(f, sheetDepartmentSumm, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCrosstab(f *excelize.File, sheet, keyName string, rows []model.CategoryCount, withTotal bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	header := []interface{}{keyName, "High", "Medium", "Low"}
	if withTotal {
		header = append(header, "Total Selected Units")
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		row := []interface{}{r.Key, r.High, r.Medium, r.Low}
		if withTotal {
			row = append(row, r.Total())
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create fill style: %w", err)
	}
	return style, nil
}

// WriteLog emits the plain-text audit trail for one run.
func WriteLog(path, sourceName string, totalMandays float64, trail []string, summary model.RunSummary, now time.Time) error {
	var b strings.Builder
	b.WriteString("Audit Selection Optimizer Log\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Input file used: %s\n", sourceName)
	fmt.Fprintf(&b, "Total Mandays detected: %g\n", totalMandays)
	b.WriteString("\n")

	for _, line := range trail {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", 70))
	b.WriteString("\n")
	fmt.Fprintf(&b, "TOTAL SUMMARY: Allocated=%.0f | Used=%.0f | Utilization=%.1f%%\n",
		summary.MandaysAllocated, summary.MandaysUsed, summary.OverallUtilization)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}
