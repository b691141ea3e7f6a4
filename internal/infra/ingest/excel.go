// internal/infra/ingest/excel.go
package ingest

import (
	"fmt"
	"io"
	"strings"

	"shift_notifier/internal/domain/roster"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns are the roster headers an uploaded workbook must
// carry, in any order. Matching is case-insensitive on trimmed cells.
var RequiredColumns = []string{"employee_name", "line_user_id", "shift_date", "start_time", "end_time"}

var allowedExtensions = map[string]bool{".xlsx": true, ".xls": true}

// AllowedFile reports whether the uploaded filename has a spreadsheet
// extension this service accepts.
func AllowedFile(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx:])]
}

// ReadRoster parses the first sheet of an Excel workbook into candidate
// shift rows. The header row must contain every required column; rows
// with all five cells blank are dropped, anything else is passed through
// untouched for the validator to judge.
func ReadRoster(r io.Reader) ([]roster.ShiftRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var candidates []roster.ShiftRow
	for _, cells := range rows[1:] {
		row := roster.ShiftRow{
			EmployeeName: cellAt(cells, columns["employee_name"]),
			RecipientID:  cellAt(cells, columns["line_user_id"]),
			ShiftDate:    cellAt(cells, columns["shift_date"]),
			StartTime:    cellAt(cells, columns["start_time"]),
			EndTime:      cellAt(cells, columns["end_time"]),
		}
		if row == (roster.ShiftRow{}) {
			continue // fully empty spreadsheet row
		}
		candidates = append(candidates, row)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no roster rows found in the uploaded file")
	}
	return candidates, nil
}

// headerIndex maps required column names to their positions, failing
// with the full list of missing columns so the user can fix the file in
// one pass.
func headerIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(RequiredColumns))
	for i, cell := range header {
		positions[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	index := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func cellAt(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
