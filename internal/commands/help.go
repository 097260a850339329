package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskmgmt help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskmgmt                                List tasks
  taskmgmt list [common flags] [--force]  List tasks (--force bypasses the cache window)
  taskmgmt add [common flags] <details...>
  taskmgmt edit [common flags] <n> <details...>
  taskmgmt rm [common flags] <n>
  taskmgmt refresh [common flags]
  taskmgmt health [common flags]
  taskmgmt login [common flags] [--token-file <path>]
  taskmgmt logout [common flags]
  taskmgmt help
  taskmgmt version

Common flags:
  --config <dir>   Override config directory
  --email <owner>  Owner key (default: TASKMGMT_EMAIL)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
