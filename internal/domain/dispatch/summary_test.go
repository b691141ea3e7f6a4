package dispatch

import (
	"testing"

	"shift_notifier/internal/domain/roster"
)

func TestStatusDerivation(t *testing.T) {
	cases := []struct {
		name    string
		summary Summary
		want    BatchStatus
	}{
		{
			name:    "all sent",
			summary: Summary{SentCount: 3, Outcomes: []Outcome{{Kind: OutcomeSent}, {Kind: OutcomeSent}, {Kind: OutcomeSent}}},
			want:    StatusSuccess,
		},
		{
			name: "sent with skips",
			summary: Summary{SentCount: 1, SkippedCount: 1, Outcomes: []Outcome{
				{Kind: OutcomeSent},
				{Kind: OutcomeSkipped, SkipReason: SkipUnregistered},
			}},
			want: StatusWarning,
		},
		{
			name: "only unregistered skips",
			summary: Summary{SkippedCount: 1, Outcomes: []Outcome{
				{Kind: OutcomeSkipped, SkipReason: SkipUnregistered},
			}},
			want: StatusWarning,
		},
		{
			name: "any failure",
			summary: Summary{SentCount: 2, FailedCount: 1, Outcomes: []Outcome{
				{Kind: OutcomeSent}, {Kind: OutcomeSent}, {Kind: OutcomeFailed},
			}},
			want: StatusError,
		},
		{
			name: "entirely invalid",
			summary: Summary{SkippedCount: 2, Outcomes: []Outcome{
				{Kind: OutcomeSkipped, SkipReason: SkipValidation},
				{Kind: OutcomeSkipped, SkipReason: SkipValidation},
			}},
			want: StatusError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.summary.Status(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRetryableOnlyForFailures(t *testing.T) {
	failed := Summary{FailedCount: 1}
	if !failed.Retryable() {
		t.Error("failed sends should be retryable")
	}
	skipped := Summary{SkippedCount: 3}
	if skipped.Retryable() {
		t.Error("skips are terminal, nothing to retry")
	}
}

func TestFailedRows(t *testing.T) {
	rowA := roster.ShiftRow{EmployeeName: "A"}
	rowB := roster.ShiftRow{EmployeeName: "B"}
	s := Summary{Outcomes: []Outcome{
		{Row: rowA, Kind: OutcomeSent},
		{Row: rowB, Kind: OutcomeFailed},
	}}
	failed := s.FailedRows()
	if len(failed) != 1 || failed[0].EmployeeName != "B" {
		t.Fatalf("unexpected failed rows: %+v", failed)
	}
}
