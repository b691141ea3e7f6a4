// internal/domain/confirmation/confirmation.go
package confirmation

import "time"

// Status values recorded for a confirmation. The inbound handler may
// pass other free-text states; these are the ones it produces itself.
const (
	StatusConfirmed = "confirmed"
)

// Confirmation records one employee's acknowledgement of a week's shift
// communication. Instances are immutable once recorded; a repeat reply
// for the same (EmployeeName, WeekStart) replaces the stored entry.
type Confirmation struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employee_name"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
	WeekStart    time.Time `json:"week_start"`
	Status       string    `json:"status"`
}

// WeekStartOf normalizes a date to the Monday of its ISO week, the key
// under which confirmations are stored.
func WeekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
