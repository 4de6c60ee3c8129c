package transaction

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes money going out from money coming in.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Transaction is a single financial movement. Installment payments are
// ordinary transactions linked to their parent plan through PlanUUID.
type Transaction struct {
	ID                int64
	UUID              string // External id shown to users, stable across chats
	UserID            int64
	Kind              Kind
	Description       string
	Amount            decimal.Decimal
	Category          string
	PaymentMethodID   sql.NullInt64
	IsInstallment     bool
	InstallmentNumber int // 1-based; 0 when not an installment
	InstallmentTotal  int
	PlanUUID          sql.NullString
	OccurredAt        time.Time
	CreatedAt         time.Time
}
