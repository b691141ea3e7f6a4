// internal/app/preview_service.go
package app

import (
	"fmt"
	"sync"

	"shift_notifier/internal/domain/roster"
)

var ErrNoStagedRows = fmt.Errorf("no roster data staged; upload a file first")

// PreviewService holds the single staged roster between upload and send.
// The mutex doubles as the single-flight guard: one upload, send or
// clear at a time, so concurrent triggers cannot race on the buffer.
// The dispatch engine itself never touches this state.
type PreviewService struct {
	mu     sync.Mutex
	staged []roster.ShiftRow
}

func NewPreviewService() *PreviewService {
	return &PreviewService{}
}

// Stage replaces the buffer with a freshly uploaded roster.
func (s *PreviewService) Stage(rows []roster.ShiftRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append([]roster.ShiftRow(nil), rows...)
}

// Rows returns a copy of the staged roster, or ErrNoStagedRows when
// nothing is staged.
func (s *PreviewService) Rows() ([]roster.ShiftRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.staged) == 0 {
		return nil, ErrNoStagedRows
	}
	return append([]roster.ShiftRow(nil), s.staged...), nil
}

// Clear drops the staged roster. Called by the user action and by the
// send path after a non-retryable outcome.
func (s *PreviewService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

// CompleteDispatch applies the buffer lifecycle rule after a batch: keep
// the rows when the outcome is retryable (failed sends remain
// addressable for a retry pass), clear otherwise.
func (s *PreviewService) CompleteDispatch(retryable bool) {
	if retryable {
		return
	}
	s.Clear()
}
