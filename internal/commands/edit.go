package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/store"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Update a task's details" }
func (c *EditCmd) Usage() string     { return "taskmgmt edit <n> <details...>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task number and details required")
		return exitcode.UserError
	}

	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return exitcode.UserError
	}

	details := strings.Join(args[1:], " ")
	if strings.TrimSpace(details) == "" {
		fmt.Fprintln(errOut, "error: details required")
		return exitcode.UserError
	}

	task, err := findTaskByNumber(ctx, st, num)
	if err != nil {
		if errors.Is(err, ErrTaskNumOutOfRange) {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
			return exitcode.UserError
		}
		return storeErrorCode(err)
	}

	if err := st.Update(ctx, task.ID, details); err != nil {
		return storeErrorCode(err)
	}
	return exitcode.Success
}
