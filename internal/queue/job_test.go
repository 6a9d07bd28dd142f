package queue

import (
	"testing"
	"time"

	"github.com/strategiclayer/api/internal/models"
)

func TestNewJob(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeRankRefresh)

	if job.ID.String() == "" {
		t.Error("expected job to have an ID")
	}
	if job.Type != JobTypeRankRefresh {
		t.Errorf("Type = %s, expected %s", job.Type, JobTypeRankRefresh)
	}
	if job.Mode != nil {
		t.Error("expected new job to refresh all modes")
	}
	if job.RetryCount != 0 {
		t.Errorf("RetryCount = %d, expected 0", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, expected 3", job.MaxRetries)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	tests := []struct {
		name      string
		notBefore *time.Time
		notAfter  *time.Time
		expected  bool
	}{
		{"no constraints", nil, nil, true},
		{"not before passed", &past, nil, true},
		{"not before pending", &future, nil, false},
		{"not after pending", nil, &future, true},
		{"not after passed", nil, &past, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			job := NewJob(JobTypeRankRefresh)
			job.NotBefore = tt.notBefore
			job.NotAfter = tt.notAfter
			if got := job.ShouldProcess(); got != tt.expected {
				t.Errorf("ShouldProcess = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeRankRefresh)
	if job.IsExpired() {
		t.Error("job without NotAfter should never expire")
	}

	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past
	if !job.IsExpired() {
		t.Error("job with past NotAfter should be expired")
	}
}

func TestJob_Retries(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeRankRefresh)
	mode := models.ModeSpicy
	job.Mode = &mode

	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry = false after %d retries, expected true", i)
		}
		job.IncrementRetry()
	}

	if job.CanRetry() {
		t.Errorf("CanRetry = true after %d retries, expected false", job.RetryCount)
	}
}
