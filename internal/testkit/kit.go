package testkit

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WeeklyHeaders is the header row of the weekly yield workbook
var WeeklyHeaders = []string{"Week", "Yield", "Tests"}

// WriteWorkbook saves headers and rows to sheet of a new workbook at path.
// Nil cells are left blank.
func WriteWorkbook(path, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteWeeklyWorkbook writes observations as a Week/Yield/Tests sheet
func WriteWeeklyWorkbook(path, sheet string, observations []WeeklyObservation) error {
	rows := make([][]interface{}, len(observations))
	for i, o := range observations {
		rows[i] = []interface{}{o.Week, o.Yield, o.Tests}
	}
	return WriteWorkbook(path, sheet, WeeklyHeaders, rows)
}
