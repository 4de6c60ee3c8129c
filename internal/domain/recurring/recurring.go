package recurring

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finance_assistant_bot/internal/domain/transaction"
)

// RecurringTransaction posts a fixed transaction every month on DayOfMonth.
// Days beyond a month's length post on the month's last day.
type RecurringTransaction struct {
	ID          int64
	UserID      int64
	Kind        transaction.Kind
	Description string
	Amount      decimal.Decimal
	Category    string
	DayOfMonth  int
	NextRun     time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NextOccurrence computes the first posting date strictly after from,
// clamping DayOfMonth to the target month's length.
func (r *RecurringTransaction) NextOccurrence(from time.Time) time.Time {
	year, month, _ := from.Date()
	candidate := clampedDate(year, month, r.DayOfMonth, from.Location())
	if !candidate.After(from) {
		candidate = clampedDate(year, month+1, r.DayOfMonth, from.Location())
	}
	return candidate
}

func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Repository defines persistence for recurring transactions.
type Repository interface {
	Create(ctx context.Context, r *RecurringTransaction) error
	ListByUser(ctx context.Context, userID int64) ([]*RecurringTransaction, error)
	Deactivate(ctx context.Context, userID, id int64) error
	// ListDue returns active rows with NextRun on or before asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]*RecurringTransaction, error)
	AdvanceNextRun(ctx context.Context, id int64, next time.Time) error
}
