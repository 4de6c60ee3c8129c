package reminder

import (
	"context"
	"database/sql"
	"time"
)

// Kind identifies the reminder type for opt-out filtering and the sent log.
type Kind string

const (
	KindStatementClosing Kind = "STATEMENT_CLOSING"
	KindPaymentDue       Kind = "PAYMENT_DUE"
	KindWeeklyReport     Kind = "WEEKLY_REPORT"
)

// SentLog records one delivery outcome, successful or not. Rows are written
// once per send and never mutated.
type SentLog struct {
	ID              int64
	UserID          int64
	Kind            Kind
	PaymentMethodID sql.NullInt64
	Success         bool
	Attempts        int
	ErrorCategory   sql.NullString
	SentAt          time.Time
}

// Repository defines persistence for the reminders-sent log.
type Repository interface {
	LogSent(ctx context.Context, entry *SentLog) error
}
