package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finance_assistant_bot/internal/domain/recurring"
)

var ErrRecurringNotFound = fmt.Errorf("recurring transaction not found")

type PostgresRecurringRepository struct {
	db *sql.DB
}

func NewPostgresRecurringRepository(db *sql.DB) *PostgresRecurringRepository {
	return &PostgresRecurringRepository{db: db}
}

const recurringColumns = `id, user_id, kind, description, amount, category, day_of_month, next_run, active, created_at, updated_at`

func scanRecurring(row interface{ Scan(...any) error }, rec *recurring.RecurringTransaction) error {
	return row.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Description, &rec.Amount, &rec.Category,
		&rec.DayOfMonth, &rec.NextRun, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *PostgresRecurringRepository) Create(ctx context.Context, rec *recurring.RecurringTransaction) error {
	query := `INSERT INTO recurring_transactions (user_id, kind, description, amount, category, day_of_month, next_run, active)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.UserID, rec.Kind, rec.Description, rec.Amount,
		rec.Category, rec.DayOfMonth, rec.NextRun, rec.Active).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating recurring transaction: %w", err)
	}
	return nil
}

func (r *PostgresRecurringRepository) ListByUser(ctx context.Context, userID int64) ([]*recurring.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + `
               FROM recurring_transactions WHERE user_id = $1 AND active = TRUE ORDER BY day_of_month`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing recurring transactions: %w", err)
	}
	defer rows.Close()
	return scanRecurringRows(rows)
}

func (r *PostgresRecurringRepository) Deactivate(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET active = FALSE, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return fmt.Errorf("error deactivating recurring transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deactivated rows: %w", err)
	}
	if affected == 0 {
		return ErrRecurringNotFound
	}
	return nil
}

func (r *PostgresRecurringRepository) ListDue(ctx context.Context, asOf time.Time) ([]*recurring.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + `
               FROM recurring_transactions WHERE active = TRUE AND next_run <= $1 ORDER BY next_run ASC`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error listing due recurring transactions: %w", err)
	}
	defer rows.Close()
	return scanRecurringRows(rows)
}

func (r *PostgresRecurringRepository) AdvanceNextRun(ctx context.Context, id int64, next time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET next_run = $1, updated_at = NOW() WHERE id = $2`, next, id); err != nil {
		return fmt.Errorf("error advancing recurring next_run: %w", err)
	}
	return nil
}

func scanRecurringRows(rows *sql.Rows) ([]*recurring.RecurringTransaction, error) {
	recs := make([]*recurring.RecurringTransaction, 0)
	for rows.Next() {
		rec := &recurring.RecurringTransaction{}
		if err := scanRecurring(rows, rec); err != nil {
			return nil, fmt.Errorf("error scanning recurring row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring rows: %w", err)
	}
	return recs, nil
}
