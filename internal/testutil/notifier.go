package testutil

import "sync"

// Notice is one recorded success or error notification.
type Notice struct {
	Message string
	Title   string
}

// RecordingNotifier captures notification sink calls for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	loading   []string
	hideCount int
	successes []Notice
	errors    []Notice
}

// ShowLoading implements store.Notifier.
func (n *RecordingNotifier) ShowLoading(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loading = append(n.loading, message)
}

// HideLoading implements store.Notifier.
func (n *RecordingNotifier) HideLoading() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hideCount++
}

// ShowSuccess implements store.Notifier.
func (n *RecordingNotifier) ShowSuccess(message, title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, Notice{Message: message, Title: title})
}

// ShowError implements store.Notifier.
func (n *RecordingNotifier) ShowError(message, title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, Notice{Message: message, Title: title})
}

// Loading returns the recorded loading messages in order.
func (n *RecordingNotifier) Loading() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.loading...)
}

// HideCount returns how many times the loading indicator was cleared.
func (n *RecordingNotifier) HideCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hideCount
}

// Successes returns the recorded success notices in order.
func (n *RecordingNotifier) Successes() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.successes...)
}

// Errors returns the recorded error notices in order.
func (n *RecordingNotifier) Errors() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.errors...)
}
