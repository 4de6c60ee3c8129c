package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance_assistant_bot/internal/domain/reminder"
)

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) LogSent(ctx context.Context, entry *reminder.SentLog) error {
	query := `INSERT INTO reminders_sent (user_id, kind, payment_method_id, success, attempts, error_category)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, sent_at`
	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Kind, entry.PaymentMethodID,
		entry.Success, entry.Attempts, entry.ErrorCategory).Scan(&entry.ID, &entry.SentAt)
	if err != nil {
		return fmt.Errorf("error logging sent reminder: %w", err)
	}
	return nil
}
