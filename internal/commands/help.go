package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskpad/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskpad help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}
	fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskpad                                       List tasks
  taskpad list [common flags] [--filter <f>] [--sort <s>]
  taskpad add [common flags] [--priority <p>] [--category <c>] <text...>
  taskpad done [common flags] <id>              Toggle completion
  taskpad edit [common flags] [--text <t>] [--priority <p>] [--category <c>] <id>
  taskpad rm [common flags] --force <id>
  taskpad clear-done [common flags] --force     Delete completed tasks
  taskpad done-all [common flags] --force       Complete every task
  taskpad clear [common flags] --force          Delete every task
  taskpad stats [common flags]
  taskpad export [common flags] [--format json|csv|pdf] [--out <path>|-]
  taskpad import [common flags] <file>|-
  taskpad push [common flags] [--list <list-name>] [--all]   Skips titles already in the list
  taskpad login [common flags]
  taskpad logout [common flags]
  taskpad help [command]
  taskpad version

Filters: all, active, completed, high
Sorts:   newest, oldest, priority, name
Priorities: low, medium, high
Categories: work, personal, shopping, health, learning, general

An <id> may be shortened to its last digits when unambiguous.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
