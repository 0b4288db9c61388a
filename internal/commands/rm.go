package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskpad/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	force bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskpad rm --force <id>" }
func (c *RmCmd) NeedsStore() bool  { return true }
func (c *RmCmd) NeedsAuth() bool   { return false }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}
	t, err := ResolveTaskRef(env.Store, ref)
	if err != nil {
		return reportRefError(errOut, err)
	}
	if !requireForce(errOut, c.force, "rm") {
		return exitcode.UserError
	}

	err = env.Store.Delete(t.ID)
	if persisted(err) && !env.Config.Quiet {
		fmt.Fprintf(out, "deleted %d\n", t.ID)
	}
	return reportError(errOut, err)
}
