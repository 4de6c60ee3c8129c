package budget

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID           int64
	UserID       int64
	Category     string
	MonthlyLimit decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines persistence for budgets.
type Repository interface {
	// Upsert creates the budget or replaces the limit of an existing one
	// for the same (user, category) pair.
	Upsert(ctx context.Context, b *Budget) error
	GetByCategory(ctx context.Context, userID int64, category string) (*Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]*Budget, error)
}
