package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"shift_notifier/internal/domain/confirmation"
)

func TestMemoryConfirmationUpsertByEmployeeAndWeek(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfirmationRepository()
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &confirmation.Confirmation{
		EmployeeName: "Alice",
		ConfirmedAt:  week.Add(40 * time.Hour),
		WeekStart:    week,
		Status:       confirmation.StatusConfirmed,
	}
	if err := repo.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}

	second := &confirmation.Confirmation{
		EmployeeName: "Alice",
		ConfirmedAt:  week.Add(48 * time.Hour),
		WeekStart:    week,
		Status:       confirmation.StatusConfirmed,
	}
	if err := repo.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert should keep the original ID: %s vs %s", first.ID, second.ID)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single upserted entry, got %d", len(all))
	}
	if !all[0].ConfirmedAt.Equal(second.ConfirmedAt) {
		t.Fatalf("expected the later timestamp to win: %v", all[0].ConfirmedAt)
	}
}

func TestMemoryConfirmationListOrderedMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfirmationRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"A", "B", "C"} {
		err := repo.Record(ctx, &confirmation.Confirmation{
			EmployeeName: name,
			ConfirmedAt:  base.Add(time.Duration(i) * time.Hour),
			WeekStart:    base,
			Status:       confirmation.StatusConfirmed,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ConfirmedAt.After(all[i-1].ConfirmedAt) {
			t.Fatalf("entries out of order at %d: %v after %v", i, all[i].ConfirmedAt, all[i-1].ConfirmedAt)
		}
	}
}

func TestMemoryConfirmationClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfirmationRepository()
	_ = repo.Record(ctx, &confirmation.Confirmation{
		EmployeeName: "A",
		ConfirmedAt:  time.Now(),
		WeekStart:    confirmation.WeekStartOf(time.Now()),
	})
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	all, _ := repo.ListAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store after Clear, got %d", len(all))
	}
}

func TestMemoryConfirmationConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfirmationRepository()
	week := confirmation.WeekStartOf(time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Record(ctx, &confirmation.Confirmation{
				EmployeeName: fmt.Sprintf("E%d", i%5),
				ConfirmedAt:  time.Now(),
				WeekStart:    week,
				Status:       confirmation.StatusConfirmed,
			})
		}(i)
	}
	wg.Wait()

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 distinct employees after concurrent upserts, got %d", len(all))
	}
}
