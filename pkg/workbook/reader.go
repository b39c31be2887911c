package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/auditops/manday-planner/pkg/core/tables"
)

// Tables holds the two raw input tables read from one workbook.
type Tables struct {
	Parameters tables.RawTable
	Universe   tables.RawTable
}

// Read opens an xlsx workbook and reads the parameters and audit-universe
// sheets by position. Fully-blank rows are dropped on the way in.
func Read(path string, paramsSheet, universeSheet int) (*Tables, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f, paramsSheet, universeSheet)
}

// ReadBytes reads a workbook from memory, for uploads that never touch disk.
func ReadBytes(data []byte, paramsSheet, universeSheet int) (*Tables, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f, paramsSheet, universeSheet)
}

func readSheets(f *excelize.File, paramsSheet, universeSheet int) (*Tables, error) {
	params, err := sheetRows(f, paramsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters sheet: %w", err)
	}

	universe, err := sheetRows(f, universeSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe sheet: %w", err)
	}

	return &Tables{
		Parameters: tables.PruneEmptyRows(params),
		Universe:   tables.PruneEmptyRows(universe),
	}, nil
}

func sheetRows(f *excelize.File, index int) (tables.RawTable, error) {
	sheets := f.GetSheetList()
	if index < 0 || index >= len(sheets) {
		return nil, fmt.Errorf("workbook has %d sheets, sheet %d does not exist", len(sheets), index)
	}

	rows, err := f.GetRows(sheets[index])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[index], err)
	}
	return rows, nil
}
