package installment

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a single purchase split into N monthly payments. The payments
// themselves are ordinary transactions linked back through the plan UUID.
type Plan struct {
	ID              int64
	UUID            string
	UserID          int64
	Description     string
	TotalAmount     decimal.Decimal
	Installments    int
	Category        string
	PaymentMethodID sql.NullInt64
	FirstDueDate    time.Time
	CreatedAt       time.Time
}

// PaymentAmount is the per-installment value: total divided evenly, rounded
// to cents, with the rounding remainder absorbed by the final installment.
func (p *Plan) PaymentAmount(number int) decimal.Decimal {
	base := p.TotalAmount.Div(decimal.NewFromInt(int64(p.Installments))).Round(2)
	if number == p.Installments {
		return p.TotalAmount.Sub(base.Mul(decimal.NewFromInt(int64(p.Installments - 1))))
	}
	return base
}

// Repository defines persistence for installment plans.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByUUID(ctx context.Context, userID int64, uuid string) (*Plan, error)
	ListByUser(ctx context.Context, userID int64) ([]*Plan, error)
}
