package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/strategiclayer/api/internal/models"
)

// fixedToday is mid-day on purpose: deadline math must normalize time-of-day
// away before counting days.
var fixedToday = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func baseTask() models.Task {
	return models.Task{
		Title:     "Write report",
		Intensity: 50,
		Layer:     models.LayerInvestment,
		Category:  models.CategoryWork,
	}
}

func TestScoreAt_RuleTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		task     models.Task
		mode     models.AppraisalMode
		expected int
	}{
		{
			name: "normal work investment no deadline",
			// (50 + 20) * 1.15 = 80.5 -> 81 (round half up)
			task:     baseTask(),
			mode:     models.ModeNormal,
			expected: 81,
		},
		{
			name: "sweet work investment no deadline",
			// (50 + 20) * 1.1 = 77
			task:     baseTask(),
			mode:     models.ModeSweet,
			expected: 77,
		},
		{
			name: "study bonus applies",
			// (50 + 10) * 1.15 = 69
			task: func() models.Task {
				task := baseTask()
				task.Category = models.CategoryStudy
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 69,
		},
		{
			name: "private penalized in normal mode",
			// (50 + 0) * 1.15 * 0.85 = 48.875 -> 49
			task: func() models.Task {
				task := baseTask()
				task.Category = models.CategoryPrivate
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 49,
		},
		{
			name: "private not penalized in sweet mode",
			// (50 + 0) * 1.1 = 55
			task: func() models.Task {
				task := baseTask()
				task.Category = models.CategoryPrivate
				return task
			}(),
			mode:     models.ModeSweet,
			expected: 55,
		},
		{
			name: "overdue work deadline task stacks bonus after multiplier in spicy mode",
			// (100 + 20) * 1.5 = 180, then +50 overdue = 230
			task: models.Task{
				Title:     "Ship release",
				Intensity: 100,
				Deadline:  strPtr("2024-05-14"),
				Layer:     models.LayerDeadline,
				Category:  models.CategoryWork,
			},
			mode:     models.ModeSpicy,
			expected: 230,
		},
		{
			name: "near deadline bonus doubled in spicy mode",
			// (50 + 20) * 1.2 = 84, +40 near = 124
			task: func() models.Task {
				task := baseTask()
				task.Deadline = strPtr("2024-05-16")
				return task
			}(),
			mode:     models.ModeSpicy,
			expected: 124,
		},
		{
			name: "near deadline bonus default in normal mode",
			// (50 + 20) * 1.15 = 80.5, +20 near = 100.5 -> 101
			task: func() models.Task {
				task := baseTask()
				task.Deadline = strPtr("2024-05-16")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 101,
		},
		{
			name: "due today counts as near",
			// (50 + 20) * 1.15 + 20 = 100.5 -> 101
			task: func() models.Task {
				task := baseTask()
				task.Deadline = strPtr("2024-05-15")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 101,
		},
		{
			name: "far deadline gets no bonus",
			// (50 + 20) * 1.15 = 80.5 -> 81
			task: func() models.Task {
				task := baseTask()
				task.Deadline = strPtr("2024-06-30")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 81,
		},
		{
			name: "half rounds up",
			// (5 + 0) * 0.9 = 4.5 -> 5
			task: models.Task{
				Title:     "Stretch",
				Intensity: 5,
				Layer:     models.LayerDesire,
				Category:  models.CategoryOther,
			},
			mode:     models.ModeNormal,
			expected: 5,
		},
		{
			name: "malformed deadline scored as no deadline",
			// (50 + 20) * 1.15 = 80.5 -> 81
			task: func() models.Task {
				task := baseTask()
				task.Deadline = strPtr("not-a-date")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: 81,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ScoreAt(tt.task, tt.mode, fixedToday)
			if err != nil {
				t.Fatalf("ScoreAt returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ScoreAt = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestScoreAt_ZeroIntensityDesireScoresZero(t *testing.T) {
	t.Parallel()

	task := models.Task{
		Title:     "Someday",
		Intensity: 0,
		Layer:     models.LayerDesire,
		Category:  models.CategoryPrivate,
	}

	for _, mode := range models.AllModes {
		got, err := ScoreAt(task, mode, fixedToday)
		if err != nil {
			t.Fatalf("ScoreAt(%s) returned error: %v", mode, err)
		}
		if got != 0 {
			t.Errorf("ScoreAt(%s) = %d, expected 0", mode, got)
		}
	}
}

func TestScoreAt_MonotonicInIntensity(t *testing.T) {
	t.Parallel()

	for _, mode := range models.AllModes {
		for _, layer := range models.AllLayers {
			prev := -1
			for intensity := 0; intensity <= 100; intensity += 10 {
				task := models.Task{
					Title:     "Monotone",
					Intensity: intensity,
					Layer:     layer,
					Category:  models.CategoryStudy,
				}
				got, err := ScoreAt(task, mode, fixedToday)
				if err != nil {
					t.Fatalf("ScoreAt(%s, %s) returned error: %v", mode, layer, err)
				}
				if got < prev {
					t.Errorf("score decreased from %d to %d at intensity %d (%s, %s)", prev, got, intensity, mode, layer)
				}
				prev = got
			}
		}
	}
}

func TestScoreAt_NearDeadlineBoundary(t *testing.T) {
	t.Parallel()

	// 2024-05-18 is exactly 3 days out: bonus applies.
	// 2024-05-19 is 4 days out: it does not.
	within := baseTask()
	within.Deadline = strPtr("2024-05-18")
	beyond := baseTask()
	beyond.Deadline = strPtr("2024-05-19")

	withinScore, err := ScoreAt(within, models.ModeNormal, fixedToday)
	if err != nil {
		t.Fatalf("ScoreAt returned error: %v", err)
	}
	beyondScore, err := ScoreAt(beyond, models.ModeNormal, fixedToday)
	if err != nil {
		t.Fatalf("ScoreAt returned error: %v", err)
	}

	if withinScore != 101 {
		t.Errorf("score at 3 days = %d, expected 101 (bonus applied)", withinScore)
	}
	if beyondScore != 81 {
		t.Errorf("score at 4 days = %d, expected 81 (no bonus)", beyondScore)
	}
}

func TestScoreAt_OverdueBonusIsModeIndependent(t *testing.T) {
	t.Parallel()

	overdue := baseTask()
	overdue.Deadline = strPtr("2024-05-14")
	dateless := baseTask()

	for _, mode := range models.AllModes {
		withBonus, err := ScoreAt(overdue, mode, fixedToday)
		if err != nil {
			t.Fatalf("ScoreAt(%s) returned error: %v", mode, err)
		}
		without, err := ScoreAt(dateless, mode, fixedToday)
		if err != nil {
			t.Fatalf("ScoreAt(%s) returned error: %v", mode, err)
		}
		if withBonus-without != OverdueBonus {
			t.Errorf("overdue bonus in %s mode = %d, expected %d", mode, withBonus-without, OverdueBonus)
		}
	}
}

func TestScoreAt_Deterministic(t *testing.T) {
	t.Parallel()

	task := baseTask()
	task.Deadline = strPtr("2024-05-17")

	first, err := ScoreAt(task, models.ModeSpicy, fixedToday)
	if err != nil {
		t.Fatalf("ScoreAt returned error: %v", err)
	}
	second, err := ScoreAt(task, models.ModeSpicy, fixedToday)
	if err != nil {
		t.Fatalf("ScoreAt returned error: %v", err)
	}
	if first != second {
		t.Errorf("repeated scoring differed: %d vs %d", first, second)
	}
}

func TestScoreAt_UnknownEnumValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		task     models.Task
		mode     models.AppraisalMode
		expected error
	}{
		{
			name:     "unknown mode",
			task:     baseTask(),
			mode:     models.AppraisalMode("savage"),
			expected: ErrUnknownMode,
		},
		{
			name: "unknown layer",
			task: func() models.Task {
				task := baseTask()
				task.Layer = models.Layer("guilt")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: ErrUnknownLayer,
		},
		{
			name: "unknown category",
			task: func() models.Task {
				task := baseTask()
				task.Category = models.Category("hobby")
				return task
			}(),
			mode:     models.ModeNormal,
			expected: ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ScoreAt(tt.task, tt.mode, fixedToday)
			if !errors.Is(err, tt.expected) {
				t.Errorf("ScoreAt error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestScoreAt_OutOfRangeIntensityStillComputes(t *testing.T) {
	t.Parallel()

	task := baseTask()
	task.Intensity = 130

	// (130 + 20) * 1.15 = 172.5 -> 173. Garbage in, garbage out: clamping is
	// the input surface's responsibility.
	got, err := ScoreAt(task, models.ModeNormal, fixedToday)
	if err != nil {
		t.Fatalf("ScoreAt returned error: %v", err)
	}
	if got != 173 {
		t.Errorf("ScoreAt = %d, expected 173", got)
	}
}

func TestConfigFor_CoversAllModesAndLayers(t *testing.T) {
	t.Parallel()

	for _, mode := range models.AllModes {
		cfg, err := configFor(mode)
		if err != nil {
			t.Fatalf("configFor(%s) returned error: %v", mode, err)
		}
		if cfg.NearDeadlineBonus <= 0 {
			t.Errorf("mode %s has no near-deadline bonus", mode)
		}
		for _, layer := range models.AllLayers {
			multiplier, err := cfg.Weights.forLayer(layer)
			if err != nil {
				t.Fatalf("forLayer(%s) returned error: %v", layer, err)
			}
			if multiplier <= 0 {
				t.Errorf("multiplier for (%s, %s) = %v, expected > 0", mode, layer, multiplier)
			}
		}
	}
}

func TestCategoryBonus_CoversAllCategories(t *testing.T) {
	t.Parallel()

	for _, category := range models.AllCategories {
		if _, err := categoryBonus(category); err != nil {
			t.Errorf("categoryBonus(%s) returned error: %v", category, err)
		}
	}
}
