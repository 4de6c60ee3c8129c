package database

import (
	"context"
	"database/sql"
	"fmt" // For error wrapping
	"strings"

	"finance_assistant_bot/internal/domain/user"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateTelegramID = fmt.Errorf("user with this Telegram ID already exists")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, telegram_id, phone_number, whatsapp_jid, whatsapp_lid, first_name, locale,
               statement_reminders_enabled, due_reminders_enabled, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, p *user.Profile) error {
	return row.Scan(&p.ID, &p.TelegramID, &p.PhoneNumber, &p.WhatsAppJID, &p.WhatsAppLID,
		&p.FirstName, &p.Locale, &p.StatementRemindersEnabled, &p.DueRemindersEnabled,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresUserRepository) Create(ctx context.Context, p *user.Profile) error {
	query := `INSERT INTO users (telegram_id, phone_number, whatsapp_jid, whatsapp_lid, first_name, locale,
                statement_reminders_enabled, due_reminders_enabled, is_active)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.TelegramID, p.PhoneNumber, p.WhatsAppJID, p.WhatsAppLID,
		p.FirstName, p.Locale, p.StatementRemindersEnabled, p.DueRemindersEnabled, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "users_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	p := &user.Profile{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	p := &user.Profile{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, telegramID), p); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Telegram ID: %w", err)
	}
	return p, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, p *user.Profile) error {
	query := `UPDATE users
               SET phone_number = $1, whatsapp_jid = $2, whatsapp_lid = $3, first_name = $4, locale = $5,
                   statement_reminders_enabled = $6, due_reminders_enabled = $7, is_active = $8, updated_at = NOW()
               WHERE id = $9
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, p.PhoneNumber, p.WhatsAppJID, p.WhatsAppLID, p.FirstName,
		p.Locale, p.StatementRemindersEnabled, p.DueRemindersEnabled, p.IsActive, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) ListByIDs(ctx context.Context, ids []int64) ([]*user.Profile, error) {
	if len(ids) == 0 {
		return []*user.Profile{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error listing users by ids: %w", err)
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func (r *PostgresUserRepository) ListActive(ctx context.Context) ([]*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active users: %w", err)
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func scanUserRows(rows *sql.Rows) ([]*user.Profile, error) {
	profiles := make([]*user.Profile, 0)
	for rows.Next() {
		p := &user.Profile{}
		if err := scanUser(rows, p); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return profiles, nil
}
