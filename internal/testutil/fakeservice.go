// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmgmt/internal/service"
)

// FakeService is an in-memory implementation of service.Service for
// testing. It assigns ids and timestamps the way the server would, and
// keeps each owner's tasks newest-created first.
type FakeService struct {
	mu    sync.Mutex
	tasks map[string][]service.Task // email -> tasks
	now   func() time.Time

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Optional gates: when non-nil, the call blocks after being
	// counted until the channel is closed (or receives). Tests use
	// them to observe optimistic state while a request is in flight.
	ListTasksGate  chan struct{}
	CreateTaskGate chan struct{}
	UpdateTaskGate chan struct{}
	DeleteTaskGate chan struct{}
}

// NewFakeService creates an empty FakeService using the real clock.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks: make(map[string][]service.Task),
		now:   time.Now,
	}
}

// SetClock substitutes the timestamp source.
func (f *FakeService) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// AddTask seeds a task with an explicit creation time and returns it.
func (f *FakeService) AddTask(email, details string, createdAt time.Time) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:        uuid.NewString(),
		Email:     email,
		Details:   details,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.tasks[email] = insertNewestFirst(f.tasks[email], task)
	return task
}

// ListTasksCalls reports how many list calls reached the service.
func (f *FakeService) ListTasksCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// CreateTaskCalls reports how many create calls reached the service.
func (f *FakeService) CreateTaskCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

// UpdateTaskCalls reports how many update calls reached the service.
func (f *FakeService) UpdateTaskCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls
}

// DeleteTaskCalls reports how many delete calls reached the service.
func (f *FakeService) DeleteTaskCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCalls
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.ListTasksGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	out := make([]service.Task, len(f.tasks[email]))
	copy(out, f.tasks[email])
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, email, details string) (service.Task, error) {
	f.mu.Lock()
	f.createCalls++
	gate := f.CreateTaskGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	now := f.now()
	task := service.Task{
		ID:        uuid.NewString(),
		Email:     email,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.tasks[email] = insertNewestFirst(f.tasks[email], task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id, email, details string) (service.Task, error) {
	f.mu.Lock()
	f.updateCalls++
	gate := f.UpdateTaskGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i, t := range f.tasks[email] {
		if t.ID == id {
			t.Details = details
			t.UpdatedAt = f.now()
			f.tasks[email][i] = t
			return t, nil
		}
	}
	return service.Task{}, &service.RemoteError{Status: 404}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deleteCalls++
	gate := f.DeleteTaskGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for email, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[email] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return &service.RemoteError{Status: 404}
}

// insertNewestFirst places task by descending created_at.
func insertNewestFirst(tasks []service.Task, task service.Task) []service.Task {
	for i, t := range tasks {
		if task.CreatedAt.After(t.CreatedAt) {
			tasks = append(tasks[:i], append([]service.Task{task}, tasks[i:]...)...)
			return tasks
		}
	}
	return append(tasks, task)
}
