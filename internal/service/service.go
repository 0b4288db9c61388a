// Package service defines the remote task service that local tasks can be
// pushed to.
package service

import (
	"context"
	"time"
)

// Remote is the backend-agnostic interface for a remote task service.
// Commands never import a vendor SDK directly.
type Remote interface {
	// DefaultList returns the user's default task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// ListLists returns all task lists in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns error if not found or ambiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// ListTasks returns every task in the list, completed ones included.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// CreateTask creates a task in the specified list.
	CreateTask(ctx context.Context, listID string, task Task) error
}

// Task is a task as the remote service stores it.
type Task struct {
	Title     string
	Notes     string
	Completed *time.Time // nil while open
}

// TaskList is a remote task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
