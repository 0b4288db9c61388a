package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskpad/internal/exitcode"
	"taskpad/internal/output"
	"taskpad/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	filter string
	sort   string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskpad list [--filter all|active|completed|high] [--sort newest|oldest|priority|name]"
}
func (c *ListCmd) NeedsStore() bool { return true }
func (c *ListCmd) NeedsAuth() bool  { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
	fs.StringVar(&c.sort, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if err := env.Store.SetFilter(task.Filter(c.filter)); err != nil {
		return reportError(errOut, err)
	}
	if err := env.Store.SetSort(task.Sort(c.sort)); err != nil {
		return reportError(errOut, err)
	}

	view := env.Store.View()
	if len(view) == 0 {
		output.FormatEmpty(out, env.Store.Filter())
	}
	for _, t := range view {
		output.FormatTask(out, t)
	}
	if env.Store.Len() > 0 {
		output.FormatFooter(out, len(view), env.Store.Len())
	}
	return exitcode.Success
}
