package paymentmethod

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Kind of payment method.
type Kind string

const (
	KindCreditCard Kind = "credit_card"
	KindDebitCard  Kind = "debit_card"
	KindPix        Kind = "pix"
	KindCash       Kind = "cash"
)

// PaymentMethod is a user's card or account. Closing and due days only make
// sense for credit cards and are null otherwise.
type PaymentMethod struct {
	ID                  int64
	UserID              int64
	Name                string
	Kind                Kind
	StatementClosingDay sql.NullInt64 // 1-31
	PaymentDueDay       sql.NullInt64 // 1-31
	MonthlyBudget       decimal.NullDecimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
