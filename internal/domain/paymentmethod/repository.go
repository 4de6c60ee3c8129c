package paymentmethod

import (
	"context"
)

// Repository defines persistence for payment methods and the learned
// per-category preferences used to auto-fill omitted payment methods.
type Repository interface {
	Create(ctx context.Context, pm *PaymentMethod) error
	GetByID(ctx context.Context, id int64) (*PaymentMethod, error)
	GetByName(ctx context.Context, userID int64, name string) (*PaymentMethod, error)
	Update(ctx context.Context, pm *PaymentMethod) error
	ListByUser(ctx context.Context, userID int64) ([]*PaymentMethod, error)

	// ListByClosingDay and ListByDueDay back the reminder eligibility
	// queries: all methods (across users) whose day matches.
	ListByClosingDay(ctx context.Context, day int) ([]*PaymentMethod, error)
	ListByDueDay(ctx context.Context, day int) ([]*PaymentMethod, error)

	// GetPreferredForCategory returns the payment method most often paired
	// with the category by this user, if any has been learned.
	GetPreferredForCategory(ctx context.Context, userID int64, category string) (*PaymentMethod, error)
	// RecordPreference upserts one observed (category, method) pairing.
	RecordPreference(ctx context.Context, userID int64, category string, methodID int64) error
}
