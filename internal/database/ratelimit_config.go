package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RatelimitConfig is the admin-tunable rate limit, in ulule/limiter formatted
// notation (e.g. "5-S" for five requests per second)
type RatelimitConfig struct {
	Rate      string
	UpdatedAt time.Time
}

// RatelimitConfigRepository handles rate limit config database operations
type RatelimitConfigRepository struct {
	db *DB
}

// NewRatelimitConfigRepository creates a new rate limit config repository
func NewRatelimitConfigRepository(db *DB) *RatelimitConfigRepository {
	return &RatelimitConfigRepository{db: db}
}

// Get retrieves the rate limit config, or nil if none is stored
func (r *RatelimitConfigRepository) Get(ctx context.Context) (*RatelimitConfig, error) {
	cfg := &RatelimitConfig{}
	err := r.db.QueryRowContext(ctx,
		`SELECT rate, updated_at FROM ratelimit_config WHERE id = 1`,
	).Scan(&cfg.Rate, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ratelimit config: %w", err)
	}
	return cfg, nil
}

// Set stores the rate limit config
func (r *RatelimitConfigRepository) Set(ctx context.Context, cfg *RatelimitConfig) error {
	query := `
		INSERT INTO ratelimit_config (id, rate, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, cfg.Rate, time.Now()); err != nil {
		return fmt.Errorf("failed to set ratelimit config: %w", err)
	}
	return nil
}
