package database

import (
	"context"
	"database/sql"
	"fmt"

	"shift_notifier/internal/domain/employee"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrEmployeeNotFound = fmt.Errorf("employee not found")

type PostgresEmployeeRepository struct {
	db *sql.DB
}

func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) Upsert(ctx context.Context, e *employee.Employee) error {
	query := `INSERT INTO employees (name, recipient_id, is_active)
               VALUES ($1, $2, $3)
               ON CONFLICT (recipient_id)
               DO UPDATE SET name = EXCLUDED.name, is_active = EXCLUDED.is_active, updated_at = NOW()
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, e.Name, e.RecipientID, e.IsActive).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting employee: %w", err)
	}
	return nil
}

func (r *PostgresEmployeeRepository) GetByRecipientID(ctx context.Context, recipientID string) (*employee.Employee, error) {
	query := `SELECT id, name, recipient_id, is_active, created_at, updated_at
               FROM employees WHERE recipient_id = $1`
	e := &employee.Employee{}
	err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&e.ID, &e.Name, &e.RecipientID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error getting employee by recipient ID: %w", err)
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) ListActive(ctx context.Context) ([]*employee.Employee, error) {
	query := `SELECT id, name, recipient_id, is_active, created_at, updated_at
               FROM employees WHERE is_active = TRUE ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active employees: %w", err)
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		e := &employee.Employee{}
		if err := rows.Scan(&e.ID, &e.Name, &e.RecipientID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return employees, nil
}

// IsKnownRecipient implements employee.Directory: a recipient is
// deliverable when it is registered and active.
func (r *PostgresEmployeeRepository) IsKnownRecipient(ctx context.Context, recipientID string) (bool, error) {
	e, err := r.GetByRecipientID(ctx, recipientID)
	if err != nil {
		if err == ErrEmployeeNotFound {
			return false, nil
		}
		return false, err
	}
	return e.IsActive, nil
}
