package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/strategiclayer/api/internal/models"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeRankRefresh rebuilds ranking snapshots after tasks change
	JobTypeRankRefresh JobType = "rank_refresh"
)

// Job represents a job in the queue
type Job struct {
	ID   uuid.UUID `json:"id"`
	Type JobType   `json:"type"`
	// Mode restricts a rank refresh to one appraisal mode; nil refreshes all
	Mode       *models.AppraisalMode `json:"mode,omitempty"`
	NotBefore  *time.Time            `json:"not_before,omitempty"` // Earliest time to process (nil = immediate)
	NotAfter   *time.Time            `json:"not_after,omitempty"`  // Latest time to process (nil = no expiration)
	CreatedAt  time.Time             `json:"created_at"`
	RetryCount int                   `json:"retry_count"`
	MaxRetries int                   `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
