// Package output provides the console notification sink and task list
// formatting for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskmgmt/internal/service"
)

// ConsoleNotifier implements the store's Notifier on stdio. Progress
// and errors go to Err, success confirmations to Out. Quiet suppresses
// everything except errors.
type ConsoleNotifier struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

// ShowLoading prints a progress line.
func (n *ConsoleNotifier) ShowLoading(message string) {
	if !n.Quiet {
		fmt.Fprintln(n.Err, message)
	}
}

// HideLoading is a no-op on a line-oriented console.
func (n *ConsoleNotifier) HideLoading() {}

// ShowSuccess prints a confirmation line.
func (n *ConsoleNotifier) ShowSuccess(message, title string) {
	if !n.Quiet {
		fmt.Fprintln(n.Out, message)
	}
}

// ShowError prints an error line. Never suppressed.
func (n *ConsoleNotifier) ShowError(message, title string) {
	fmt.Fprintf(n.Err, "error: %s\n", message)
}

// FormatTask formats a task line.
// Format: "{N:>4}  {DETAILS}\n" (4-wide right-aligned number, two spaces, details)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeDetails(task.Details))
}

// normalizeDetails normalizes task details for display.
// - Empty or whitespace-only details become "(empty)"
// - Newlines are replaced with spaces
func normalizeDetails(details string) string {
	details = strings.ReplaceAll(details, "\r", " ")
	details = strings.ReplaceAll(details, "\n", " ")

	if strings.TrimSpace(details) == "" {
		return "(empty)"
	}
	return details
}
