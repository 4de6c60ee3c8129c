package user

import (
	"context"
)

// Repository defines the operations for persisting and retrieving user profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id int64) (*Profile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	// ListByIDs fetches profiles for a set of user ids in one round trip;
	// used by the reminder eligibility queries.
	ListByIDs(ctx context.Context, ids []int64) ([]*Profile, error)
	ListActive(ctx context.Context) ([]*Profile, error)
}
