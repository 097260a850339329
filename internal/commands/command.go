// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/service"
	"taskmgmt/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a signed-in
	// session. Commands like help, version, login, logout, health
	// return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, API URLs, owner key).
	// st is the session store; nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int
}

// storeErrorCode maps a store operation error to an exit code. The
// notification sink already surfaced the failure, so callers only
// translate, never re-print.
func storeErrorCode(err error) int {
	if errors.Is(err, service.ErrAuthNotReady) || errors.Is(err, service.ErrAuthTokenUnavailable) {
		return exitcode.AuthError
	}
	return exitcode.BackendError
}
