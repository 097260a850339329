package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/output"
	"taskmgmt/internal/store"
)

func init() {
	Register(&RefreshCmd{})
}

// RefreshCmd implements the refresh command: a forced re-fetch that
// bypasses the freshness window, then prints the reconciled list.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string      { return "refresh" }
func (c *RefreshCmd) Aliases() []string { return nil }
func (c *RefreshCmd) Synopsis() string  { return "Force re-fetch, bypassing the cache window" }
func (c *RefreshCmd) Usage() string     { return "taskmgmt refresh" }
func (c *RefreshCmd) NeedsAuth() bool   { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if err := st.Refresh(ctx); err != nil {
		return storeErrorCode(err)
	}

	tasks := st.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		output.FormatTask(out, i+1, task)
	}
	return exitcode.Success
}
