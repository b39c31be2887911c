package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a CSV file into a raw table. Records may have uneven field
// counts; fully-blank rows are pruned the same way workbook rows are.
func LoadCSV(path string) (RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CSV: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV reads CSV content from a reader into a raw table.
func ReadCSV(r io.Reader) (RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var raw RawTable
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read CSV row: %w", err)
		}
		raw = append(raw, record)
	}

	return PruneEmptyRows(raw), nil
}
