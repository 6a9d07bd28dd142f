package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/strategiclayer/api/internal/database"
	"github.com/strategiclayer/api/internal/models"
	"github.com/strategiclayer/api/internal/queue"
	"github.com/strategiclayer/api/internal/scoring"
	"go.uber.org/zap"
)

// SnapshotRanker processes rank refresh jobs: it re-runs the ranking pipeline
// over all stored tasks and persists one snapshot per appraisal mode so the
// result view can serve a pre-built ranking.
type SnapshotRanker struct {
	taskRepo     database.TaskRepositoryInterface
	snapshotRepo database.RankingSnapshotRepositoryInterface
	logger       *zap.Logger
}

// NewSnapshotRanker creates a new snapshot ranker
func NewSnapshotRanker(
	taskRepo database.TaskRepositoryInterface,
	snapshotRepo database.RankingSnapshotRepositoryInterface,
	logger *zap.Logger,
) *SnapshotRanker {
	return &SnapshotRanker{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// ProcessRankRefreshJob rebuilds ranking snapshots. A job carrying a mode
// refreshes only that mode; otherwise every registered mode is rebuilt.
func (r *SnapshotRanker) ProcessRankRefreshJob(ctx context.Context, job *queue.Job) error {
	r.logger.Info("processing_rank_refresh_job",
		zap.String("job_id", job.ID.String()),
	)

	tasks, err := r.taskRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	modes := models.AllModes
	if job.Mode != nil {
		modes = []models.AppraisalMode{*job.Mode}
	}

	for _, mode := range modes {
		if err := r.refreshMode(ctx, mode, tasks); err != nil {
			return err
		}
	}

	r.logger.Info("rank_refresh_complete",
		zap.String("job_id", job.ID.String()),
		zap.Int("tasks", len(tasks)),
		zap.Int("modes", len(modes)),
	)
	return nil
}

func (r *SnapshotRanker) refreshMode(ctx context.Context, mode models.AppraisalMode, tasks []models.Task) error {
	ranked, err := scoring.Rank(tasks, mode, models.SortScoreDesc)
	if err != nil {
		return fmt.Errorf("failed to rank tasks for mode %s: %w", mode, err)
	}

	entries := make([]models.RankedEntry, 0, len(ranked))
	for _, rt := range ranked {
		entries = append(entries, models.RankedEntry{
			TaskID:   rt.Task.ID,
			Title:    rt.Task.Title,
			Score:    rt.Score,
			Layer:    rt.Task.Layer,
			Category: rt.Task.Category,
			Deadline: rt.Task.Deadline,
		})
	}

	version, err := r.snapshotRepo.NextVersion(ctx, mode)
	if err != nil {
		return fmt.Errorf("failed to get next snapshot version for mode %s: %w", mode, err)
	}

	snapshot := &models.RankingSnapshot{
		Mode:        mode,
		Entries:     entries,
		Version:     version,
		GeneratedAt: time.Now(),
	}

	updated, err := r.snapshotRepo.Upsert(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to store snapshot for mode %s: %w", mode, err)
	}
	if !updated {
		// A concurrent refresh already wrote a newer snapshot; nothing lost
		r.logger.Debug("snapshot_version_conflict",
			zap.String("mode", string(mode)),
			zap.Int("version", version),
		)
		return nil
	}

	r.logger.Debug("snapshot_stored",
		zap.String("mode", string(mode)),
		zap.Int("entries", len(entries)),
		zap.Int("version", version),
	)
	return nil
}

// ProcessJob processes a queue message based on its job type
func (r *SnapshotRanker) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	switch job.Type {
	case queue.JobTypeRankRefresh:
		if err := r.ProcessRankRefreshJob(ctx, job); err != nil {
			return r.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError requeues a failed job while retries remain, then dead-letters it
func (r *SnapshotRanker) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if job.CanRetry() {
		job.IncrementRetry()
		r.logger.Warn("rank_refresh_failed_retrying",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			return fmt.Errorf("failed to nack job for retry: %w", nackErr)
		}
		return nil
	}

	r.logger.Error("rank_refresh_failed_dead_lettering",
		zap.String("job_id", job.ID.String()),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		return fmt.Errorf("failed to nack job to DLQ: %w", nackErr)
	}
	return fmt.Errorf("rank refresh failed: %w", err)
}
