package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/strategiclayer/api/internal/models"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	GetPaginated(ctx context.Context, page, pageSize int) ([]models.Task, int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RankingSnapshotRepositoryInterface defines the interface for snapshot repository operations
type RankingSnapshotRepositoryInterface interface {
	GetByMode(ctx context.Context, mode models.AppraisalMode) (*models.RankingSnapshot, error)
	Upsert(ctx context.Context, snapshot *models.RankingSnapshot) (bool, error)
	NextVersion(ctx context.Context, mode models.AppraisalMode) (int, error)
}

// Ensure concrete types implement the interfaces
var (
	_ TaskRepositoryInterface            = (*TaskRepository)(nil)
	_ RankingSnapshotRepositoryInterface = (*RankingSnapshotRepository)(nil)
)
