package database

import (
	"context"
	"database/sql"
	"fmt"

	"shift_notifier/internal/domain/confirmation"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresConfirmationRepository struct {
	db *sql.DB
}

func NewPostgresConfirmationRepository(db *sql.DB) *PostgresConfirmationRepository {
	return &PostgresConfirmationRepository{db: db}
}

// Record upserts keyed by (employee_name, week_start); a repeat reply
// for the same employee and week refreshes confirmed_at and status.
func (r *PostgresConfirmationRepository) Record(ctx context.Context, c *confirmation.Confirmation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO confirmations (id, employee_name, confirmed_at, week_start, status)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT (employee_name, week_start)
               DO UPDATE SET confirmed_at = EXCLUDED.confirmed_at, status = EXCLUDED.status
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.EmployeeName, c.ConfirmedAt, c.WeekStart, c.Status).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("error recording confirmation: %w", err)
	}
	return nil
}

func (r *PostgresConfirmationRepository) ListAll(ctx context.Context) ([]*confirmation.Confirmation, error) {
	query := `SELECT id, employee_name, confirmed_at, week_start, status
               FROM confirmations ORDER BY confirmed_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []*confirmation.Confirmation
	for rows.Next() {
		c := &confirmation.Confirmation{}
		if err := rows.Scan(&c.ID, &c.EmployeeName, &c.ConfirmedAt, &c.WeekStart, &c.Status); err != nil {
			return nil, fmt.Errorf("error scanning confirmation row: %w", err)
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmation rows: %w", err)
	}
	return confirmations, nil
}

func (r *PostgresConfirmationRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM confirmations`); err != nil {
		return fmt.Errorf("error clearing confirmations: %w", err)
	}
	return nil
}
