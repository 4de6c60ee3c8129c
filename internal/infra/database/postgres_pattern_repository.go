// internal/infra/database/postgres_pattern_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"finance_assistant_bot/internal/domain/intent"
)

var ErrPatternNotFound = fmt.Errorf("intent pattern not found")

type PostgresPatternRepository struct {
	db *sql.DB
}

func NewPostgresPatternRepository(db *sql.DB) *PostgresPatternRepository {
	return &PostgresPatternRepository{db: db}
}

func (r *PostgresPatternRepository) FindByNormalizedText(ctx context.Context, userID int64, normalized string) (*intent.Pattern, error) {
	query := `SELECT id, user_id, normalized_text, action, entities, use_count, created_at, updated_at
               FROM intent_patterns WHERE user_id = $1 AND normalized_text = $2`
	p := &intent.Pattern{}
	var entitiesJSON []byte
	err := r.db.QueryRowContext(ctx, query, userID, normalized).Scan(
		&p.ID, &p.UserID, &p.Normalized, &p.Action, &entitiesJSON, &p.UseCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("error getting intent pattern: %w", err)
	}
	if len(entitiesJSON) > 0 {
		if err := json.Unmarshal(entitiesJSON, &p.Entities); err != nil {
			return nil, fmt.Errorf("error decoding intent pattern entities: %w", err)
		}
	}
	return p, nil
}

func (r *PostgresPatternRepository) Save(ctx context.Context, p *intent.Pattern) error {
	entitiesJSON, err := json.Marshal(p.Entities)
	if err != nil {
		return fmt.Errorf("error encoding intent pattern entities: %w", err)
	}
	query := `INSERT INTO intent_patterns (user_id, normalized_text, action, entities, use_count)
               VALUES ($1, $2, $3, $4, 1)
               ON CONFLICT (user_id, normalized_text)
               DO UPDATE SET action = EXCLUDED.action, entities = EXCLUDED.entities, updated_at = NOW()
               RETURNING id, use_count, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query, p.UserID, p.Normalized, p.Action, entitiesJSON).
		Scan(&p.ID, &p.UseCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving intent pattern: %w", err)
	}
	return nil
}

func (r *PostgresPatternRepository) IncrementUseCount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE intent_patterns SET use_count = use_count + 1, updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error incrementing pattern use count: %w", err)
	}
	return nil
}
