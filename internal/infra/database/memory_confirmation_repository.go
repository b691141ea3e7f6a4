package database

import (
	"context"
	"sort"
	"sync"

	"shift_notifier/internal/domain/confirmation"

	"github.com/google/uuid"
)

type confirmationKey struct {
	employeeName string
	weekStart    string // date component only
}

// MemoryConfirmationRepository keeps confirmations process-local. Safe
// for the webhook writing while a dispatch or list is in flight.
type MemoryConfirmationRepository struct {
	mu      sync.RWMutex
	entries map[confirmationKey]*confirmation.Confirmation
}

func NewMemoryConfirmationRepository() *MemoryConfirmationRepository {
	return &MemoryConfirmationRepository{entries: make(map[confirmationKey]*confirmation.Confirmation)}
}

func (r *MemoryConfirmationRepository) Record(_ context.Context, c *confirmation.Confirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := confirmationKey{employeeName: c.EmployeeName, weekStart: c.WeekStart.Format("2006-01-02")}
	if existing, ok := r.entries[key]; ok {
		existing.ConfirmedAt = c.ConfirmedAt
		existing.Status = c.Status
		c.ID = existing.ID
		return nil
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	stored := *c
	r.entries[key] = &stored
	return nil
}

func (r *MemoryConfirmationRepository) ListAll(_ context.Context) ([]*confirmation.Confirmation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	confirmations := make([]*confirmation.Confirmation, 0, len(r.entries))
	for _, c := range r.entries {
		copied := *c
		confirmations = append(confirmations, &copied)
	}
	sort.Slice(confirmations, func(i, j int) bool {
		return confirmations[i].ConfirmedAt.After(confirmations[j].ConfirmedAt)
	})
	return confirmations, nil
}

func (r *MemoryConfirmationRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[confirmationKey]*confirmation.Confirmation)
	return nil
}
