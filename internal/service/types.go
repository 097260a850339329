// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// Task represents a single task record as stored by the remote service.
// The server assigns ID and both timestamps; the client never generates them.
type Task struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskRequest is the JSON payload for create and update calls.
type TaskRequest struct {
	Email   string `json:"email"`
	Details string `json:"details"`
}
