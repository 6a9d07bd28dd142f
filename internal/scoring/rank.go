package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/strategiclayer/api/internal/models"
)

// RankedTask pairs a task with its computed score
type RankedTask struct {
	Task  models.Task `json:"task"`
	Score int         `json:"score"`
}

// Rank filters, scores, and orders tasks using the current wall clock for
// deadline math. See RankAt.
func Rank(tasks []models.Task, mode models.AppraisalMode, key models.SortKey) ([]RankedTask, error) {
	return RankAt(tasks, mode, key, time.Now())
}

// RankAt runs the ranking pipeline against a fixed today:
//
//  1. drop tasks whose trimmed title is empty, the only validity gate
//  2. score every remaining task under the given mode
//  3. stable-sort by the requested key; equal keys keep filter-stage order
//
// Tasks without a deadline (including unparseable dates) sort last under both
// deadline orderings, so undated tasks never float to the top. The input slice
// is never mutated.
func RankAt(tasks []models.Task, mode models.AppraisalMode, key models.SortKey, today time.Time) ([]RankedTask, error) {
	switch key {
	case models.SortScoreDesc, models.SortDeadlineAsc, models.SortDeadlineDesc:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	ranked := make([]RankedTask, 0, len(tasks))
	for _, task := range tasks {
		if strings.TrimSpace(task.Title) == "" {
			continue
		}
		score, err := ScoreAt(task, mode, today)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedTask{Task: task, Score: score})
	}

	switch key {
	case models.SortScoreDesc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})
	case models.SortDeadlineAsc, models.SortDeadlineDesc:
		ascending := key == models.SortDeadlineAsc
		sort.SliceStable(ranked, func(i, j int) bool {
			di, iDated := deadlineDate(ranked[i].Task.Deadline)
			dj, jDated := deadlineDate(ranked[j].Task.Deadline)
			if iDated != jDated {
				// Dated before undated in both directions
				return iDated
			}
			if !iDated || di.Equal(dj) {
				return false
			}
			if ascending {
				return di.Before(dj)
			}
			return di.After(dj)
		})
	}

	return ranked, nil
}
