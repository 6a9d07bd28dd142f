package models

import (
	"time"

	"github.com/google/uuid"
)

// Layer represents why a task matters
type Layer string

const (
	LayerDeadline   Layer = "deadline"   // externally imposed (MUST)
	LayerInvestment Layer = "investment" // future payoff (SHOULD)
	LayerDesire     Layer = "desire"     // personal want (WANT)
)

// Category represents the area of life a task belongs to
type Category string

const (
	CategoryWork    Category = "work"
	CategoryStudy   Category = "study"
	CategoryPrivate Category = "private"
	CategoryOther   Category = "other"
)

// AppraisalMode selects the scoring table used to appraise tasks
type AppraisalMode string

const (
	ModeSweet  AppraisalMode = "sweet"
	ModeNormal AppraisalMode = "normal"
	ModeSpicy  AppraisalMode = "spicy"
)

// SortKey selects the ordering of a ranking
type SortKey string

const (
	SortScoreDesc    SortKey = "score_desc"
	SortDeadlineAsc  SortKey = "deadline_asc"
	SortDeadlineDesc SortKey = "deadline_desc"
)

// AllModes lists every registered appraisal mode
var AllModes = []AppraisalMode{ModeSweet, ModeNormal, ModeSpicy}

// AllLayers lists every registered layer
var AllLayers = []Layer{LayerDeadline, LayerInvestment, LayerDesire}

// AllCategories lists every registered category
var AllCategories = []Category{CategoryWork, CategoryStudy, CategoryPrivate, CategoryOther}

// DeadlineLayout is the calendar-date format for task deadlines (ISO YYYY-MM-DD)
const DeadlineLayout = "2006-01-02"

// Task represents a task item.
// Deadline is a pointer so "no deadline" stays distinguishable from an empty
// date; an unparseable value is normalized to "no deadline" by the scoring
// engine rather than rejected.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Intensity   int       `json:"intensity"`
	Deadline    *string   `json:"deadline,omitempty"`
	Layer       Layer     `json:"layer"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
