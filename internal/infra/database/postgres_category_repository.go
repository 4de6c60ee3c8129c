package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance_assistant_bot/internal/domain/category"

	"github.com/lib/pq" // For pq.Array
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `INSERT INTO categories (user_id, name, keywords)
               VALUES ($1, $2, $3)
               ON CONFLICT (user_id, name) DO UPDATE SET keywords = EXCLUDED.keywords
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Name, pq.Array(c.Keywords)).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating category: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*category.Category, error) {
	query := `SELECT id, user_id, name, keywords, created_at FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*category.Category, 0)
	for rows.Next() {
		c := &category.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, pq.Array(&c.Keywords), &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}
