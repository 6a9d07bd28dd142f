package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/strategiclayer/api/internal/models"
)

// RankingSnapshotRepository handles ranking snapshot database operations
type RankingSnapshotRepository struct {
	db *DB
}

// NewRankingSnapshotRepository creates a new ranking snapshot repository
func NewRankingSnapshotRepository(db *DB) *RankingSnapshotRepository {
	return &RankingSnapshotRepository{db: db}
}

// GetByMode retrieves the snapshot for a mode, or nil if none has been built yet
func (r *RankingSnapshotRepository) GetByMode(ctx context.Context, mode models.AppraisalMode) (*models.RankingSnapshot, error) {
	query := `
		SELECT mode, entries, version, generated_at
		FROM ranking_snapshots
		WHERE mode = $1
	`

	snapshot := &models.RankingSnapshot{}
	var entriesJSON []byte

	err := r.db.QueryRowContext(ctx, query, mode).Scan(
		&snapshot.Mode,
		&entriesJSON,
		&snapshot.Version,
		&snapshot.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking snapshot: %w", err)
	}

	if err := json.Unmarshal(entriesJSON, &snapshot.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot entries: %w", err)
	}

	return snapshot, nil
}

// Upsert stores a snapshot for its mode, replacing any previous one.
// The version check makes concurrent refreshes last-writer-wins without ever
// moving a snapshot backwards; returns false when a newer version was already
// stored.
func (r *RankingSnapshotRepository) Upsert(ctx context.Context, snapshot *models.RankingSnapshot) (bool, error) {
	entriesJSON, err := json.Marshal(snapshot.Entries)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot entries: %w", err)
	}

	query := `
		INSERT INTO ranking_snapshots (mode, entries, version, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (mode) DO UPDATE
		SET entries = EXCLUDED.entries, version = EXCLUDED.version, generated_at = EXCLUDED.generated_at
		WHERE ranking_snapshots.version < EXCLUDED.version
	`

	result, err := r.db.ExecContext(ctx, query,
		snapshot.Mode,
		entriesJSON,
		snapshot.Version,
		time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert ranking snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check upserted rows: %w", err)
	}

	return affected > 0, nil
}

// NextVersion returns the version number the next snapshot for a mode should carry
func (r *RankingSnapshotRepository) NextVersion(ctx context.Context, mode models.AppraisalMode) (int, error) {
	var version sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM ranking_snapshots WHERE mode = $1`, mode,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot version: %w", err)
	}
	return int(version.Int64) + 1, nil
}
