package commands

import (
	"context"
	"errors"
	"fmt"

	"taskmgmt/internal/service"
	"taskmgmt/internal/store"
)

// ErrTaskNumOutOfRange is returned when a task number does not resolve
// against the current list.
var ErrTaskNumOutOfRange = errors.New("task number out of range")

// findTaskByNumber ensures the session list is loaded, then resolves a
// 1-based task number against the current display ordering (newest
// first). The fetch honors the freshness window, so resolving several
// numbers in a session does not hammer the backend.
func findTaskByNumber(ctx context.Context, st *store.Store, num int) (service.Task, error) {
	if err := st.Fetch(ctx, store.FetchOptions{}); err != nil {
		return service.Task{}, err
	}

	tasks := st.Tasks()
	if num < 1 || num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrTaskNumOutOfRange, num)
	}
	return tasks[num-1], nil
}
