// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for remote task store operations.
// All HTTP calls go through this interface; the store never builds
// requests directly.
type Service interface {
	// ListTasks returns all tasks owned by the given email key,
	// newest-created first (server ordering).
	ListTasks(ctx context.Context, email string) ([]Task, error)

	// CreateTask creates a task and returns the server's record,
	// with server-assigned id and timestamps.
	CreateTask(ctx context.Context, email, details string) (Task, error)

	// UpdateTask replaces the details of an existing task and returns
	// the server's authoritative version (fresh updated_at).
	UpdateTask(ctx context.Context, id, email, details string) (Task, error)

	// DeleteTask removes a task. The response body is ignored.
	DeleteTask(ctx context.Context, id string) error
}
