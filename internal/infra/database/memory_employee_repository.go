package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"shift_notifier/internal/domain/employee"
)

// MemoryEmployeeRepository is the directory used when no DATABASE_URL is
// configured: recipient IDs captured by the webhook live only for the
// lifetime of the process.
type MemoryEmployeeRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[string]*employee.Employee // keyed by recipient ID
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{byID: make(map[string]*employee.Employee)}
}

func (r *MemoryEmployeeRepository) Upsert(_ context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.byID[e.RecipientID]; ok {
		existing.Name = e.Name
		existing.IsActive = e.IsActive
		existing.UpdatedAt = now
		*e = *existing
		return nil
	}

	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = now
	e.UpdatedAt = now
	stored := *e
	r.byID[e.RecipientID] = &stored
	return nil
}

func (r *MemoryEmployeeRepository) GetByRecipientID(_ context.Context, recipientID string) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[recipientID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *MemoryEmployeeRepository) ListActive(_ context.Context) ([]*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var employees []*employee.Employee
	for _, e := range r.byID {
		if e.IsActive {
			copied := *e
			employees = append(employees, &copied)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

// IsKnownRecipient implements employee.Directory.
func (r *MemoryEmployeeRepository) IsKnownRecipient(ctx context.Context, recipientID string) (bool, error) {
	e, err := r.GetByRecipientID(ctx, recipientID)
	if err != nil {
		if err == ErrEmployeeNotFound {
			return false, nil
		}
		return false, err
	}
	return e.IsActive, nil
}
