// Package store maintains the in-memory task list for one user session
// and reconciles it against the remote store under optimistic mutation.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskmgmt/internal/service"
)

const (
	// FreshnessWindow is how long a successful fetch keeps the cache
	// valid; non-forced fetches inside the window skip the network.
	FreshnessWindow = 5 * time.Minute

	// RecoveryDelay is the default debounce before a recovery refetch.
	RecoveryDelay = 1000 * time.Millisecond

	// CreateRecoveryDelay is the debounce after a failed create.
	CreateRecoveryDelay = 500 * time.Millisecond
)

// Notification messages surfaced through the Notifier.
const (
	MsgLoadingTasks = "Loading tasks..."
	MsgLoadFailed   = "Failed to load tasks. Please try again."
	MsgCreatingTask = "Creating task..."
	MsgCreated      = "Task created successfully!"
	MsgCreateFailed = "Failed to create task. Please try again."
	MsgUpdatingTask = "Updating task..."
	MsgUpdated      = "Task updated successfully!"
	MsgUpdateFailed = "Failed to update task. Please try again."
	MsgDeletingTask = "Deleting task..."
	MsgDeleted      = "Task deleted successfully!"
	MsgDeleteFailed = "Failed to delete task. Please try again."
	TitleSuccess    = "Success"
	TitleError      = "Error"
)

// Notifier surfaces loading, success and error states to the UI.
// Calls are fire-and-forget; the store never consumes a return value.
type Notifier interface {
	ShowLoading(message string)
	HideLoading()
	ShowSuccess(message, title string)
	ShowError(message, title string)
}

// FetchOptions controls a single fetch.
type FetchOptions struct {
	// Force bypasses the freshness window.
	Force bool

	// Blocking presents a blocking loading notification for the whole
	// fetch instead of the internal loading flag.
	Blocking bool
}

// Options tunes store timing. Zero values take the package defaults;
// tests shorten the windows and substitute the clock.
type Options struct {
	FreshFor            time.Duration
	RecoveryDelay       time.Duration
	CreateRecoveryDelay time.Duration
	Now                 func() time.Time
}

// Store is the task cache and reconciliation engine for one signed-in
// session. It is not the authority: the remote service is, and the
// cache's validity is bounded by the freshness window.
//
// Operations may run concurrently; they are not serialized against each
// other. Each mutation captures its pre-mutation snapshot and restores
// exactly that snapshot on failure. If two operations race on the same
// task, the later rollback may restore the earlier operation's
// optimistic (not-yet-confirmed) value; last-applied-wins is the
// accepted behavior, not a guarantee.
type Store struct {
	owner  string
	svc    service.Service
	notify Notifier
	log    *zap.Logger

	now                 func() time.Time
	freshFor            time.Duration
	recoveryDelay       time.Duration
	createRecoveryDelay time.Duration

	mu         sync.Mutex
	tasks      []service.Task
	lastFetch  time.Time
	hasLoaded  bool
	loading    bool
	refreshing bool
	refetch    *time.Timer
	closed     bool
}

// New creates a store scoped to the given owner key. One store exists
// per authenticated session; Close discards it on sign-out.
func New(owner string, svc service.Service, notify Notifier, log *zap.Logger, opts Options) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.FreshFor == 0 {
		opts.FreshFor = FreshnessWindow
	}
	if opts.RecoveryDelay == 0 {
		opts.RecoveryDelay = RecoveryDelay
	}
	if opts.CreateRecoveryDelay == 0 {
		opts.CreateRecoveryDelay = CreateRecoveryDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		owner:               owner,
		svc:                 svc,
		notify:              notify,
		log:                 log,
		now:                 opts.Now,
		freshFor:            opts.FreshFor,
		recoveryDelay:       opts.RecoveryDelay,
		createRecoveryDelay: opts.CreateRecoveryDelay,
	}
}

// Owner returns the session's owner key.
func (s *Store) Owner() string { return s.owner }

// Tasks returns a copy of the current task list, newest-created first.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether an initial (pre-first-load) fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Refreshing reports whether a forced re-fetch is in flight while
// loaded data is still displayed.
func (s *Store) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// HasLoaded reports whether at least one fetch has succeeded.
func (s *Store) HasLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLoaded
}

// LastFetch returns when the list was last confirmed by the server.
func (s *Store) LastFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetch
}

// Close ends the session: pending recovery refetches are cancelled and
// results of in-flight requests are silently discarded from now on.
// In-flight requests themselves are not interrupted.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.refetch != nil {
		s.refetch.Stop()
		s.refetch = nil
	}
}

// Fetch loads the task list from the server and replaces the cache
// wholesale. Non-forced fetches inside the freshness window skip the
// network and keep the cached list.
func (s *Store) Fetch(ctx context.Context, opts FetchOptions) error {
	if s.owner == "" {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if !opts.Force && s.hasLoaded && s.now().Sub(s.lastFetch) < s.freshFor {
		s.mu.Unlock()
		s.log.Debug("using cached tasks, skipping API call")
		return nil
	}
	// A fetch supersedes any pending recovery refetch.
	if s.refetch != nil {
		s.refetch.Stop()
		s.refetch = nil
	}
	if !opts.Blocking && !s.hasLoaded {
		// Avoids indicator flicker on refresh: the loading flag is
		// raised only before the first successful load.
		s.loading = true
	}
	s.mu.Unlock()

	if opts.Blocking {
		s.notify.ShowLoading(MsgLoadingTasks)
	}
	defer s.finishFetch(opts.Blocking)

	tasks, err := s.svc.ListTasks(ctx, s.owner)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		// Cache left untouched: stale but displayed.
		s.mu.Unlock()
		s.log.Error("error fetching tasks", zap.Error(err))
		s.notify.ShowError(MsgLoadFailed, TitleError)
		return err
	}
	s.tasks = tasks
	s.lastFetch = s.now()
	s.hasLoaded = true
	s.mu.Unlock()
	return nil
}

// finishFetch clears the indicator state on every fetch exit path.
func (s *Store) finishFetch(blocking bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.refreshing = false
	s.mu.Unlock()

	if blocking {
		s.notify.HideLoading()
	}
}

// Refresh forces a re-fetch while current data stays displayed
// (pull-to-refresh).
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()
	return s.Fetch(ctx, FetchOptions{Force: true})
}

// Create sends a new task to the server and prepends the returned
// record to the list. No optimistic insertion happens: a task without
// a server id could not be edited or deleted consistently, so the list
// is unchanged until the server confirms.
func (s *Store) Create(ctx context.Context, details string) error {
	if s.owner == "" {
		return nil
	}

	s.notify.ShowLoading(MsgCreatingTask)
	defer s.hideLoading()

	task, err := s.svc.CreateTask(ctx, s.owner, details)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Error("error creating task", zap.Error(err))
		s.notify.ShowError(MsgCreateFailed, TitleError)
		// Nothing was added locally, so no rollback; resync the cache.
		s.scheduleRefetch(s.createRecoveryDelay)
		return err
	}
	s.tasks = append([]service.Task{task}, s.tasks...)
	s.lastFetch = s.now()
	s.mu.Unlock()

	s.notify.ShowSuccess(MsgCreated, TitleSuccess)
	return nil
}

// Update optimistically rewrites the task's details before the network
// call, then replaces the optimistic entry with the server's
// authoritative version. On failure the exact pre-mutation task object
// is restored and a debounced recovery refetch re-syncs the cache.
// No-op if the id is not in the list.
func (s *Store) Update(ctx context.Context, id, details string) error {
	if s.owner == "" {
		return nil
	}

	s.mu.Lock()
	idx := s.index(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	original := s.tasks[idx]
	optimistic := original
	optimistic.Details = details
	optimistic.UpdatedAt = s.now()
	s.tasks[idx] = optimistic
	s.mu.Unlock()

	s.notify.ShowLoading(MsgUpdatingTask)
	defer s.hideLoading()

	updated, err := s.svc.UpdateTask(ctx, id, s.owner, details)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		if i := s.index(id); i >= 0 {
			s.tasks[i] = original
		}
		s.mu.Unlock()
		s.log.Error("error updating task", zap.Error(err))
		s.notify.ShowError(MsgUpdateFailed, TitleError)
		s.scheduleRefetch(s.recoveryDelay)
		return err
	}
	if i := s.index(id); i >= 0 {
		s.tasks[i] = updated
	}
	s.lastFetch = s.now()
	s.mu.Unlock()

	s.notify.ShowSuccess(MsgUpdated, TitleSuccess)
	return nil
}

// Delete optimistically removes the task before the network call. On
// failure the original is re-inserted in descending created_at order so
// display ordering survives the rollback, and a debounced recovery
// refetch re-syncs the cache. No-op if the id is not in the list.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.owner == "" {
		return nil
	}

	s.mu.Lock()
	idx := s.index(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	original := s.tasks[idx]
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.mu.Unlock()

	s.notify.ShowLoading(MsgDeletingTask)
	defer s.hideLoading()

	err := s.svc.DeleteTask(ctx, id)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.tasks = append(s.tasks, original)
		sort.SliceStable(s.tasks, func(i, j int) bool {
			return s.tasks[i].CreatedAt.After(s.tasks[j].CreatedAt)
		})
		s.mu.Unlock()
		s.log.Error("error deleting task", zap.Error(err))
		s.notify.ShowError(MsgDeleteFailed, TitleError)
		s.scheduleRefetch(s.recoveryDelay)
		return err
	}
	s.lastFetch = s.now()
	s.mu.Unlock()

	s.notify.ShowSuccess(MsgDeleted, TitleSuccess)
	return nil
}

// scheduleRefetch arms the recovery timer: any previously scheduled
// refetch is cancelled, so only the last request in a rapid sequence
// fires.
func (s *Store) scheduleRefetch(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.refetch != nil {
		s.refetch.Stop()
	}
	s.refetch = time.AfterFunc(delay, func() {
		s.Fetch(context.Background(), FetchOptions{Force: true})
	})
}

// hideLoading clears the blocking indicator unless the session ended.
func (s *Store) hideLoading() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		s.notify.HideLoading()
	}
}

// index returns the position of id in the task list, or -1.
// Caller holds s.mu.
func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
