package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskpad/internal/exitcode"
)

func init() {
	Register(&ClearDoneCmd{})
	Register(&DoneAllCmd{})
	Register(&ClearCmd{})
}

// ClearDoneCmd implements the clear-done command.
type ClearDoneCmd struct {
	force bool
}

func (c *ClearDoneCmd) Name() string      { return "clear-done" }
func (c *ClearDoneCmd) Aliases() []string { return nil }
func (c *ClearDoneCmd) Synopsis() string  { return "Delete all completed tasks" }
func (c *ClearDoneCmd) Usage() string     { return "taskpad clear-done --force" }
func (c *ClearDoneCmd) NeedsStore() bool  { return true }
func (c *ClearDoneCmd) NeedsAuth() bool   { return false }

func (c *ClearDoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ClearDoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if code, ok := checkBulkArgs(errOut, args, c.force, c.Name()); !ok {
		return code
	}
	n, err := env.Store.DeleteCompleted()
	if persisted(err) && !env.Config.Quiet {
		fmt.Fprintf(out, "deleted %d completed %s\n", n, taskNoun(n))
	}
	return reportError(errOut, err)
}

// DoneAllCmd implements the done-all command.
type DoneAllCmd struct {
	force bool
}

func (c *DoneAllCmd) Name() string      { return "done-all" }
func (c *DoneAllCmd) Aliases() []string { return nil }
func (c *DoneAllCmd) Synopsis() string  { return "Mark every task completed" }
func (c *DoneAllCmd) Usage() string     { return "taskpad done-all --force" }
func (c *DoneAllCmd) NeedsStore() bool  { return true }
func (c *DoneAllCmd) NeedsAuth() bool   { return false }

func (c *DoneAllCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *DoneAllCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if code, ok := checkBulkArgs(errOut, args, c.force, c.Name()); !ok {
		return code
	}
	n, err := env.Store.MarkAllComplete()
	if persisted(err) && !env.Config.Quiet {
		fmt.Fprintf(out, "completed %d %s\n", n, taskNoun(n))
	}
	return reportError(errOut, err)
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	force bool
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete every task" }
func (c *ClearCmd) Usage() string     { return "taskpad clear --force" }
func (c *ClearCmd) NeedsStore() bool  { return true }
func (c *ClearCmd) NeedsAuth() bool   { return false }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if code, ok := checkBulkArgs(errOut, args, c.force, c.Name()); !ok {
		return code
	}
	n := env.Store.Len()
	err := env.Store.ClearAll()
	if persisted(err) && !env.Config.Quiet {
		fmt.Fprintf(out, "deleted %d %s\n", n, taskNoun(n))
	}
	return reportError(errOut, err)
}

// checkBulkArgs rejects positional arguments and a missing --force.
func checkBulkArgs(errOut io.Writer, args []string, force bool, name string) (int, bool) {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError, false
	}
	if !requireForce(errOut, force, name) {
		return exitcode.UserError, false
	}
	return exitcode.Success, true
}

func taskNoun(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
