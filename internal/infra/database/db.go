package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver registration
)

const (
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 1 * time.Minute
	pingTimeout     = 5 * time.Second
)

// NewPostgresConnection opens a postgres pool sized by maxConns and verifies
// connectivity before returning. The idle pool is kept at half the ceiling
// so reminder fan-out bursts reuse warm connections without pinning the
// full pool between cron runs.
func NewPostgresConnection(dataSourceName string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if maxConns < 1 {
		maxConns = 1
	}
	idleConns := maxConns / 2
	if idleConns < 1 {
		idleConns = 1
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(idleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
