package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskmgmt add <details...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: details required")
		return exitcode.UserError
	}

	details := strings.Join(args, " ")
	if strings.TrimSpace(details) == "" {
		fmt.Fprintln(errOut, "error: details required")
		return exitcode.UserError
	}

	if err := st.Create(ctx, details); err != nil {
		return storeErrorCode(err)
	}
	return exitcode.Success
}
