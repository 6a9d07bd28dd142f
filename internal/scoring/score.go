package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/strategiclayer/api/internal/models"
)

// Scoring errors. Unknown enumeration values are rejected rather than scored
// with a neutral multiplier, since a silent default would misrank tasks
// without any visible symptom.
var (
	ErrUnknownMode     = errors.New("unknown appraisal mode")
	ErrUnknownLayer    = errors.New("unknown layer")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSortKey  = errors.New("unknown sort key")
)

const (
	// OverdueBonus is added when a deadline has already passed, regardless of mode
	OverdueBonus = 50
	// NearDeadlineWindowDays is the number of days ahead that still counts as "near"
	NearDeadlineWindowDays = 3
	// PrivatePenaltyFactor is applied to private tasks in non-sweet modes
	PrivatePenaltyFactor = 0.85
)

// LayerWeights holds the score multiplier for each layer. One struct field per
// layer so that registering a new layer forces every mode table to be updated.
type LayerWeights struct {
	Deadline   float64
	Investment float64
	Desire     float64
}

// ModeConfig is the full scoring configuration selected by an appraisal mode
type ModeConfig struct {
	Weights           LayerWeights
	NearDeadlineBonus float64
	// PenalizePrivate applies the realism penalty to private tasks.
	// Only the sweet mode is lenient enough to skip it.
	PenalizePrivate bool
}

// configFor returns the scoring configuration for a mode.
// Every registered mode must have an entry here; an unknown mode is a
// configuration error, not a silent fallback to normal.
func configFor(mode models.AppraisalMode) (ModeConfig, error) {
	switch mode {
	case models.ModeSweet:
		return ModeConfig{
			Weights:           LayerWeights{Deadline: 1.2, Investment: 1.1, Desire: 1.0},
			NearDeadlineBonus: 20,
			PenalizePrivate:   false,
		}, nil
	case models.ModeNormal:
		return ModeConfig{
			Weights:           LayerWeights{Deadline: 1.3, Investment: 1.15, Desire: 0.9},
			NearDeadlineBonus: 20,
			PenalizePrivate:   true,
		}, nil
	case models.ModeSpicy:
		return ModeConfig{
			Weights:           LayerWeights{Deadline: 1.5, Investment: 1.2, Desire: 0.7},
			NearDeadlineBonus: 40,
			PenalizePrivate:   true,
		}, nil
	default:
		return ModeConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// forLayer returns the multiplier for a layer
func (w LayerWeights) forLayer(layer models.Layer) (float64, error) {
	switch layer {
	case models.LayerDeadline:
		return w.Deadline, nil
	case models.LayerInvestment:
		return w.Investment, nil
	case models.LayerDesire:
		return w.Desire, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
}

// categoryBonus returns the additive bonus for a category
func categoryBonus(category models.Category) (float64, error) {
	switch category {
	case models.CategoryWork:
		return 20, nil
	case models.CategoryStudy:
		return 10, nil
	case models.CategoryPrivate, models.CategoryOther:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

// Score computes the priority score for a task under the given mode, using the
// current wall clock for deadline proximity. See ScoreAt for the rules.
func Score(task models.Task, mode models.AppraisalMode) (int, error) {
	return ScoreAt(task, mode, time.Now())
}

// ScoreAt computes the priority score for a task under the given mode, with
// deadline proximity measured against today. The same (task, mode, today)
// always yields the same score.
//
// Rules, in order:
//  1. base = intensity + category bonus
//  2. multiply by the mode's layer multiplier
//  3. multiply by the private penalty when the mode penalizes private tasks
//  4. add the deadline bonus (overdue, or near within 3 days); flat bonuses
//     stack after the multipliers, never before
//  5. round half away from zero to an integer
//
// Intensity outside [0, 100] is computed as-is; clamping is the input
// surface's job. A deadline that fails to parse as YYYY-MM-DD is treated as
// no deadline.
func ScoreAt(task models.Task, mode models.AppraisalMode, today time.Time) (int, error) {
	cfg, err := configFor(mode)
	if err != nil {
		return 0, err
	}

	bonus, err := categoryBonus(task.Category)
	if err != nil {
		return 0, err
	}

	multiplier, err := cfg.Weights.forLayer(task.Layer)
	if err != nil {
		return 0, err
	}

	score := (float64(task.Intensity) + bonus) * multiplier

	if cfg.PenalizePrivate && task.Category == models.CategoryPrivate {
		score *= PrivatePenaltyFactor
	}

	if deadline, ok := deadlineDate(task.Deadline); ok {
		switch diff := daysUntil(deadline, today); {
		case diff < 0:
			score += OverdueBonus
		case diff <= NearDeadlineWindowDays:
			score += cfg.NearDeadlineBonus
		}
	}

	return int(math.Round(score)), nil
}

// deadlineDate parses an optional deadline string. Absent and malformed
// values both report ok=false, per the single normalize-to-no-deadline policy
// shared by scoring and sorting.
func deadlineDate(deadline *string) (time.Time, bool) {
	if deadline == nil || *deadline == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(models.DeadlineLayout, *deadline)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysUntil returns the whole calendar days from today to target. Both sides
// are normalized to midnight UTC so time-of-day never causes an off-by-one.
func daysUntil(target, today time.Time) int {
	return int(midnight(target).Sub(midnight(today)).Hours() / 24)
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
