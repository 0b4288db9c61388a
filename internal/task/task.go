// Package task implements the task collection: its entities, mutations,
// derived views, statistics and the persistence round trip to a slot.
package task

import (
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// rank orders priorities for sorting; unknown values sort last.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.rank() > 0
}

// ParsePriority parses a priority name (case-insensitive, trimmed).
// An empty string yields the default priority, medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return p, nil
}

// Category groups tasks. The empty category is allowed for collections
// that do not use categories.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryGeneral  Category = "general"
)

// Categories lists the known categories.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryLearning,
	CategoryGeneral,
}

// Valid reports whether c is empty or one of the known categories.
func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory parses a category name (case-insensitive, trimmed).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{
			Field:  "category",
			Reason: "must be one of work, personal, shopping, health, learning, general",
		}
	}
	return c, nil
}

// Task is a single to-do item.
// CompletedAt is non-nil exactly when Completed is true.
type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// complete marks t completed at now, keeping an existing completion time.
func (t *Task) complete(now time.Time) {
	t.Completed = true
	if t.CompletedAt == nil {
		at := now
		t.CompletedAt = &at
	}
}

// reopen clears the completion state.
func (t *Task) reopen() {
	t.Completed = false
	t.CompletedAt = nil
}

// Changes holds the fields to apply in an edit. Nil fields are left as is.
type Changes struct {
	Text     *string
	Priority *Priority
	Category *Category
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return c.Text == nil && c.Priority == nil && c.Category == nil
}

func normalizeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "text", Reason: "required"}
	}
	return s, nil
}
