package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskpad/internal/exitcode"
	"taskpad/internal/output"
	"taskpad/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority string
	category string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string {
	return "taskpad add [--priority <p>] [--category <c>] <text...>"
}
func (c *AddCmd) NeedsStore() bool { return true }
func (c *AddCmd) NeedsAuth() bool  { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	prioName := c.priority
	if prioName == "" {
		prioName = env.Config.Defaults.Priority
	}
	priority, err := task.ParsePriority(prioName)
	if err != nil {
		return reportError(errOut, err)
	}

	catName := c.category
	if catName == "" {
		catName = env.Config.Defaults.Category
	}
	category, err := task.ParseCategory(catName)
	if err != nil {
		return reportError(errOut, err)
	}

	t, err := env.Store.Add(text, priority, category)
	if persisted(err) && !env.Config.Quiet {
		output.FormatTask(out, t)
	}
	return reportError(errOut, err)
}
