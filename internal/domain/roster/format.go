// internal/domain/roster/format.go
package roster

import (
	"fmt"
	"strings"
)

// FormatMessage renders the notification body for one roster row. The
// layout is fixed; recipients and support staff compare these messages
// verbatim, so changes here are breaking.
func FormatMessage(row ShiftRow) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour shift has been scheduled for:\nDate: %s\nTime: %s - %s\n\nThank you for your hard work!",
		strings.TrimSpace(row.EmployeeName),
		strings.TrimSpace(row.ShiftDate),
		strings.TrimSpace(row.StartTime),
		strings.TrimSpace(row.EndTime),
	)
}
