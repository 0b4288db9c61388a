package commands

import (
	"context"
	"flag"
	"io"

	"taskpad/internal/output"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "taskpad done <id>" }
func (c *DoneCmd) NeedsStore() bool  { return true }
func (c *DoneCmd) NeedsAuth() bool   { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}
	t, err := ResolveTaskRef(env.Store, ref)
	if err != nil {
		return reportRefError(errOut, err)
	}

	t, err = env.Store.Toggle(t.ID)
	if persisted(err) && !env.Config.Quiet {
		output.FormatTask(out, t)
	}
	return reportError(errOut, err)
}
