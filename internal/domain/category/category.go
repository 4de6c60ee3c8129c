package category

import (
	"context"
	"time"
)

// Category is a user-defined spending category. Keywords feed the local
// NLP parser stage: a message containing a keyword is attributed to the
// category without an LLM round trip.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Keywords  []string
	CreatedAt time.Time
}

// Repository defines persistence for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	ListByUser(ctx context.Context, userID int64) ([]*Category, error)
}
