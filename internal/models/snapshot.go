package models

import (
	"time"

	"github.com/google/uuid"
)

// RankedEntry is one row of a ranking snapshot
type RankedEntry struct {
	TaskID   uuid.UUID `json:"task_id"`
	Title    string    `json:"title"`
	Score    int       `json:"score"`
	Layer    Layer     `json:"layer"`
	Category Category  `json:"category"`
	Deadline *string   `json:"deadline,omitempty"`
}

// RankingSnapshot is the cached ranking for one appraisal mode, rebuilt by the
// worker whenever tasks change. Version supports optimistic concurrency on
// update; a stale writer loses silently and the newer snapshot wins.
type RankingSnapshot struct {
	Mode        AppraisalMode `json:"mode"`
	Entries     []RankedEntry `json:"entries"`
	Version     int           `json:"version"`
	GeneratedAt time.Time     `json:"generated_at"`
}
