package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmgmt/internal/backend/taskapi"
	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/store"
)

// MsgTechnicalIssue is surfaced when the health probe fails, whatever
// the underlying cause.
const MsgTechnicalIssue = "The app is experiencing some technical difficulty."

func init() {
	Register(&HealthCmd{})
}

// HealthCmd probes the API health-check endpoint. Unauthenticated;
// works before login.
type HealthCmd struct{}

func (c *HealthCmd) Name() string      { return "health" }
func (c *HealthCmd) Aliases() []string { return nil }
func (c *HealthCmd) Synopsis() string  { return "Probe the API health-check endpoint" }
func (c *HealthCmd) Usage() string     { return "taskmgmt health" }
func (c *HealthCmd) NeedsAuth() bool   { return false }

func (c *HealthCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HealthCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if err := taskapi.Probe(ctx, cfg.BaseURL, nil); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", MsgTechnicalIssue)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
