package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance_assistant_bot/internal/domain/installment"
)

var ErrPlanNotFound = fmt.Errorf("installment plan not found")

type PostgresInstallmentRepository struct {
	db *sql.DB
}

func NewPostgresInstallmentRepository(db *sql.DB) *PostgresInstallmentRepository {
	return &PostgresInstallmentRepository{db: db}
}

const planColumns = `id, uuid, user_id, description, total_amount, installments, category, payment_method_id, first_due_date, created_at`

func scanPlan(row interface{ Scan(...any) error }, p *installment.Plan) error {
	return row.Scan(&p.ID, &p.UUID, &p.UserID, &p.Description, &p.TotalAmount, &p.Installments,
		&p.Category, &p.PaymentMethodID, &p.FirstDueDate, &p.CreatedAt)
}

func (r *PostgresInstallmentRepository) Create(ctx context.Context, p *installment.Plan) error {
	query := `INSERT INTO installment_plans (uuid, user_id, description, total_amount, installments, category, payment_method_id, first_due_date)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, p.UUID, p.UserID, p.Description, p.TotalAmount,
		p.Installments, p.Category, p.PaymentMethodID, p.FirstDueDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating installment plan: %w", err)
	}
	return nil
}

func (r *PostgresInstallmentRepository) GetByUUID(ctx context.Context, userID int64, uuid string) (*installment.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM installment_plans WHERE user_id = $1 AND uuid = $2`
	p := &installment.Plan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, query, userID, uuid), p); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting installment plan by uuid: %w", err)
	}
	return p, nil
}

func (r *PostgresInstallmentRepository) ListByUser(ctx context.Context, userID int64) ([]*installment.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM installment_plans WHERE user_id = $1 ORDER BY first_due_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing installment plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*installment.Plan, 0)
	for rows.Next() {
		p := &installment.Plan{}
		if err := scanPlan(rows, p); err != nil {
			return nil, fmt.Errorf("error scanning installment plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment plan rows: %w", err)
	}
	return plans, nil
}
