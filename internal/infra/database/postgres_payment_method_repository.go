// internal/infra/database/postgres_payment_method_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance_assistant_bot/internal/domain/paymentmethod"
)

var ErrPaymentMethodNotFound = fmt.Errorf("payment method not found")
var ErrPreferenceNotFound = fmt.Errorf("payment method preference not found")

type PostgresPaymentMethodRepository struct {
	db *sql.DB
}

func NewPostgresPaymentMethodRepository(db *sql.DB) *PostgresPaymentMethodRepository {
	return &PostgresPaymentMethodRepository{db: db}
}

const paymentMethodColumns = `id, user_id, name, kind, statement_closing_day, payment_due_day, monthly_budget, created_at, updated_at`

func scanPaymentMethod(row interface{ Scan(...any) error }, pm *paymentmethod.PaymentMethod) error {
	return row.Scan(&pm.ID, &pm.UserID, &pm.Name, &pm.Kind, &pm.StatementClosingDay,
		&pm.PaymentDueDay, &pm.MonthlyBudget, &pm.CreatedAt, &pm.UpdatedAt)
}

func (r *PostgresPaymentMethodRepository) Create(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	query := `INSERT INTO payment_methods (user_id, name, kind, statement_closing_day, payment_due_day, monthly_budget)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, pm.UserID, pm.Name, pm.Kind, pm.StatementClosingDay,
		pm.PaymentDueDay, pm.MonthlyBudget).Scan(&pm.ID, &pm.CreatedAt, &pm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating payment method: %w", err)
	}
	return nil
}

func (r *PostgresPaymentMethodRepository) GetByID(ctx context.Context, id int64) (*paymentmethod.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id = $1`
	pm := &paymentmethod.PaymentMethod{}
	if err := scanPaymentMethod(r.db.QueryRowContext(ctx, query, id), pm); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("error getting payment method by ID: %w", err)
	}
	return pm, nil
}

func (r *PostgresPaymentMethodRepository) GetByName(ctx context.Context, userID int64, name string) (*paymentmethod.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE user_id = $1 AND LOWER(name) = LOWER($2)`
	pm := &paymentmethod.PaymentMethod{}
	if err := scanPaymentMethod(r.db.QueryRowContext(ctx, query, userID, name), pm); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("error getting payment method by name: %w", err)
	}
	return pm, nil
}

func (r *PostgresPaymentMethodRepository) Update(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	query := `UPDATE payment_methods
               SET name = $1, kind = $2, statement_closing_day = $3, payment_due_day = $4, monthly_budget = $5, updated_at = NOW()
               WHERE id = $6
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, pm.Name, pm.Kind, pm.StatementClosingDay,
		pm.PaymentDueDay, pm.MonthlyBudget, pm.ID).Scan(&pm.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPaymentMethodNotFound
		}
		return fmt.Errorf("error updating payment method: %w", err)
	}
	return nil
}

func (r *PostgresPaymentMethodRepository) ListByUser(ctx context.Context, userID int64) ([]*paymentmethod.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing payment methods: %w", err)
	}
	defer rows.Close()
	return scanPaymentMethodRows(rows)
}

func (r *PostgresPaymentMethodRepository) ListByClosingDay(ctx context.Context, day int) ([]*paymentmethod.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE statement_closing_day = $1 ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("error listing payment methods by closing day: %w", err)
	}
	defer rows.Close()
	return scanPaymentMethodRows(rows)
}

func (r *PostgresPaymentMethodRepository) ListByDueDay(ctx context.Context, day int) ([]*paymentmethod.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE payment_due_day = $1 ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("error listing payment methods by due day: %w", err)
	}
	defer rows.Close()
	return scanPaymentMethodRows(rows)
}

// GetPreferredForCategory resolves the learned (category → method) pairing
// with the highest use count.
func (r *PostgresPaymentMethodRepository) GetPreferredForCategory(ctx context.Context, userID int64, category string) (*paymentmethod.PaymentMethod, error) {
	query := `SELECT pm.id, pm.user_id, pm.name, pm.kind, pm.statement_closing_day, pm.payment_due_day, pm.monthly_budget, pm.created_at, pm.updated_at
               FROM payment_method_preferences pref
               JOIN payment_methods pm ON pm.id = pref.payment_method_id
               WHERE pref.user_id = $1 AND pref.category = $2
               ORDER BY pref.use_count DESC
               LIMIT 1`
	pm := &paymentmethod.PaymentMethod{}
	if err := scanPaymentMethod(r.db.QueryRowContext(ctx, query, userID, category), pm); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("error getting preferred payment method: %w", err)
	}
	return pm, nil
}

func (r *PostgresPaymentMethodRepository) RecordPreference(ctx context.Context, userID int64, category string, methodID int64) error {
	query := `INSERT INTO payment_method_preferences (user_id, category, payment_method_id, use_count)
               VALUES ($1, $2, $3, 1)
               ON CONFLICT (user_id, category, payment_method_id)
               DO UPDATE SET use_count = payment_method_preferences.use_count + 1, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, category, methodID); err != nil {
		return fmt.Errorf("error recording payment method preference: %w", err)
	}
	return nil
}

func scanPaymentMethodRows(rows *sql.Rows) ([]*paymentmethod.PaymentMethod, error) {
	methods := make([]*paymentmethod.PaymentMethod, 0)
	for rows.Next() {
		pm := &paymentmethod.PaymentMethod{}
		if err := scanPaymentMethod(rows, pm); err != nil {
			return nil, fmt.Errorf("error scanning payment method row: %w", err)
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}
	return methods, nil
}
