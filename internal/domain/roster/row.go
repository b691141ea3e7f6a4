// internal/domain/roster/row.go
package roster

// ShiftRow is one entry of an uploaded shift roster.
// Field names on the wire are fixed by the upload/preview contract.
type ShiftRow struct {
	EmployeeName string `json:"employee_name"`
	RecipientID  string `json:"line_user_id"`
	ShiftDate    string `json:"shift_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// RejectReason explains why a row failed validation.
type RejectReason string

const (
	ReasonMissingField  RejectReason = "missing_field"
	ReasonMalformedDate RejectReason = "malformed_date"
	ReasonMalformedTime RejectReason = "malformed_time"
	ReasonStartAfterEnd RejectReason = "start_after_end"
)

// RejectedRow pairs a rejected row with its reason. Field carries the
// offending field name when Reason is ReasonMissingField.
type RejectedRow struct {
	Row    ShiftRow
	Reason RejectReason
	Field  string
}
