// internal/infra/database/postgres_transaction_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finance_assistant_bot/internal/domain/transaction"
)

var ErrTransactionNotFound = fmt.Errorf("transaction not found")

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, uuid, user_id, kind, description, amount, category, payment_method_id,
               is_installment, installment_number, installment_total, plan_uuid, occurred_at, created_at`

func scanTransaction(row interface{ Scan(...any) error }, t *transaction.Transaction) error {
	return row.Scan(&t.ID, &t.UUID, &t.UserID, &t.Kind, &t.Description, &t.Amount, &t.Category,
		&t.PaymentMethodID, &t.IsInstallment, &t.InstallmentNumber, &t.InstallmentTotal,
		&t.PlanUUID, &t.OccurredAt, &t.CreatedAt)
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `INSERT INTO transactions (uuid, user_id, kind, description, amount, category, payment_method_id,
                is_installment, installment_number, installment_total, plan_uuid, occurred_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, t.UUID, t.UserID, t.Kind, t.Description, t.Amount, t.Category,
		t.PaymentMethodID, t.IsInstallment, t.InstallmentNumber, t.InstallmentTotal, t.PlanUUID, t.OccurredAt).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionRepository) BulkCreate(ctx context.Context, ts []*transaction.Transaction) error {
	if len(ts) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO transactions (uuid, user_id, kind, description, amount, category,
                payment_method_id, is_installment, installment_number, installment_total, plan_uuid, occurred_at, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk create: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		_, err := stmt.ExecContext(ctx, t.UUID, t.UserID, t.Kind, t.Description, t.Amount, t.Category,
			t.PaymentMethodID, t.IsInstallment, t.InstallmentNumber, t.InstallmentTotal, t.PlanUUID, t.OccurredAt)
		if err != nil {
			return fmt.Errorf("error executing statement for bulk create (uuid %s): %w", t.UUID, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresTransactionRepository) GetByUUID(ctx context.Context, userID int64, uuid string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND uuid = $2`
	t := &transaction.Transaction{}
	if err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, uuid), t); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("error getting transaction by uuid: %w", err)
	}
	return t, nil
}

func (r *PostgresTransactionRepository) DeleteByUUID(ctx context.Context, userID int64, uuid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1 AND uuid = $2`, userID, uuid)
	if err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresTransactionRepository) ListByPeriod(ctx context.Context, userID int64, from, to time.Time) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
               FROM transactions
               WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
               ORDER BY occurred_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions by period: %w", err)
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

func (r *PostgresTransactionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
               FROM transactions WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

func scanTransactionRows(rows *sql.Rows) ([]*transaction.Transaction, error) {
	ts := make([]*transaction.Transaction, 0)
	for rows.Next() {
		t := &transaction.Transaction{}
		if err := scanTransaction(rows, t); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		ts = append(ts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return ts, nil
}
