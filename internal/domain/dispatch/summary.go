// internal/domain/dispatch/summary.go
package dispatch

import "shift_notifier/internal/domain/roster"

// OutcomeKind is the terminal state of one roster row within a batch.
type OutcomeKind string

const (
	OutcomeSent    OutcomeKind = "SENT"
	OutcomeSkipped OutcomeKind = "SKIPPED"
	OutcomeFailed  OutcomeKind = "FAILED"
)

// SkipReason distinguishes rows that were never attempted.
type SkipReason string

const (
	SkipValidation   SkipReason = "validation"
	SkipUnregistered SkipReason = "unregistered"
)

// Outcome records what happened to a single row. Exactly one of
// SkipReason / Err is meaningful, selected by Kind.
type Outcome struct {
	Row        roster.ShiftRow
	Kind       OutcomeKind
	SkipReason SkipReason
	Reject     *roster.RejectedRow // set for validation skips
	Err        error               // set for failed sends
}

// BatchStatus is the derived overall state of one dispatch invocation.
type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusWarning BatchStatus = "warning"
	StatusError   BatchStatus = "error"
)

// Summary aggregates the outcomes of one batch. Warnings carries one
// entry per unregistered row and Errors one entry per failed send; both
// are returned in full, display truncation belongs to the caller.
type Summary struct {
	SentCount    int
	SkippedCount int
	FailedCount  int

	Warnings []string
	Errors   []string

	// UnregisteredRecipients lists distinct employee names whose
	// recipient ID was unknown to the directory.
	UnregisteredRecipients []string

	Outcomes []Outcome
}

// Status derives the overall batch state. Failed sends dominate. A batch
// where every single row was rejected by validation is an error (nothing
// was deliverable to begin with), while skips alongside sent rows, or
// unregistered-only skips, are a warning: nothing is retryable but the
// operator should look at the list.
func (s *Summary) Status() BatchStatus {
	switch {
	case s.FailedCount > 0:
		return StatusError
	case s.entirelyInvalid():
		return StatusError
	case s.SkippedCount > 0:
		return StatusWarning
	default:
		return StatusSuccess
	}
}

func (s *Summary) entirelyInvalid() bool {
	if len(s.Outcomes) == 0 {
		return false
	}
	for _, o := range s.Outcomes {
		if o.Kind != OutcomeSkipped || o.SkipReason != SkipValidation {
			return false
		}
	}
	return true
}

// Retryable reports whether resubmitting the batch is meaningful: only
// transport failures are, validation and directory skips are terminal
// for the submitted rows.
func (s *Summary) Retryable() bool {
	return s.FailedCount > 0
}

// FailedRows returns the rows whose send attempt failed, in outcome
// order, for a caller-driven retry pass.
func (s *Summary) FailedRows() []roster.ShiftRow {
	var rows []roster.ShiftRow
	for _, o := range s.Outcomes {
		if o.Kind == OutcomeFailed {
			rows = append(rows, o.Row)
		}
	}
	return rows
}
