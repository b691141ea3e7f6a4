// internal/domain/roster/validate.go
package roster

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Spreadsheet exports produce both HH:MM and HH:MM:SS cells.
var timeLayouts = []string{"15:04", "15:04:05"}

// Validate partitions candidate rows into valid and rejected, preserving
// input order. A row is atomically valid: all five fields non-blank, the
// date parses as a calendar date, both times parse as times of day, and
// the start is strictly before the end.
func Validate(rows []ShiftRow) (valid []ShiftRow, rejected []RejectedRow) {
	for _, row := range rows {
		if name, ok := missingField(row); !ok {
			rejected = append(rejected, RejectedRow{Row: row, Reason: ReasonMissingField, Field: name})
			continue
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(row.ShiftDate)); err != nil {
			rejected = append(rejected, RejectedRow{Row: row, Reason: ReasonMalformedDate})
			continue
		}
		start, okStart := parseTimeOfDay(row.StartTime)
		end, okEnd := parseTimeOfDay(row.EndTime)
		if !okStart || !okEnd {
			rejected = append(rejected, RejectedRow{Row: row, Reason: ReasonMalformedTime})
			continue
		}
		if !start.Before(end) {
			rejected = append(rejected, RejectedRow{Row: row, Reason: ReasonStartAfterEnd})
			continue
		}
		valid = append(valid, row)
	}
	return valid, rejected
}

// missingField reports the first blank required field, in declaration order.
func missingField(row ShiftRow) (string, bool) {
	checks := []struct {
		name  string
		value string
	}{
		{"employee_name", row.EmployeeName},
		{"line_user_id", row.RecipientID},
		{"shift_date", row.ShiftDate},
		{"start_time", row.StartTime},
		{"end_time", row.EndTime},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return c.name, false
		}
	}
	return "", true
}

func parseTimeOfDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShiftDateValue returns the parsed calendar date of a valid row.
// It panics for rows that did not pass Validate.
func (r ShiftRow) ShiftDateValue() time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(r.ShiftDate))
	if err != nil {
		panic("roster: ShiftDateValue called on unvalidated row: " + err.Error())
	}
	return t
}
