package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance_assistant_bot/internal/domain/budget"
)

var ErrBudgetNotFound = fmt.Errorf("budget not found")

type PostgresBudgetRepository struct {
	db *sql.DB
}

func NewPostgresBudgetRepository(db *sql.DB) *PostgresBudgetRepository {
	return &PostgresBudgetRepository{db: db}
}

func (r *PostgresBudgetRepository) Upsert(ctx context.Context, b *budget.Budget) error {
	query := `INSERT INTO budgets (user_id, category, monthly_limit)
               VALUES ($1, $2, $3)
               ON CONFLICT (user_id, category)
               DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit, updated_at = NOW()
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, b.UserID, b.Category, b.MonthlyLimit).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting budget: %w", err)
	}
	return nil
}

func (r *PostgresBudgetRepository) GetByCategory(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
	query := `SELECT id, user_id, category, monthly_limit, created_at, updated_at
               FROM budgets WHERE user_id = $1 AND category = $2`
	b := &budget.Budget{}
	err := r.db.QueryRowContext(ctx, query, userID, category).
		Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("error getting budget by category: %w", err)
	}
	return b, nil
}

func (r *PostgresBudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `SELECT id, user_id, category, monthly_limit, created_at, updated_at
               FROM budgets WHERE user_id = $1 ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]*budget.Budget, 0)
	for rows.Next() {
		b := &budget.Budget{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning budget row: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return budgets, nil
}
