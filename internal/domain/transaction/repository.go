package transaction

import (
	"context"
	"time"
)

// Repository defines persistence for transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	// BulkCreate inserts a batch atomically; used for installment plans.
	BulkCreate(ctx context.Context, ts []*Transaction) error
	GetByUUID(ctx context.Context, userID int64, uuid string) (*Transaction, error)
	DeleteByUUID(ctx context.Context, userID int64, uuid string) error
	// ListByPeriod returns the user's transactions with OccurredAt inside
	// [from, to], both inclusive.
	ListByPeriod(ctx context.Context, userID int64, from, to time.Time) ([]*Transaction, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}
