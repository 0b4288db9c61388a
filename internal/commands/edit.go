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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags that were given are
// applied.
type EditCmd struct {
	text     optionalString
	priority optionalString
	category optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text, priority or category" }
func (c *EditCmd) Usage() string {
	return "taskpad edit [--text <t>] [--priority <p>] [--category <c>] <id>"
}
func (c *EditCmd) NeedsStore() bool { return true }
func (c *EditCmd) NeedsAuth() bool  { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.text, c.priority, c.category = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.text, "text", "")
	fs.Var(&c.text, "t", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	var changes task.Changes
	if c.text.set {
		changes.Text = &c.text.value
	}
	if c.priority.set {
		p, err := task.ParsePriority(c.priority.value)
		if err != nil {
			return reportError(errOut, err)
		}
		changes.Priority = &p
	}
	if c.category.set {
		cat, err := task.ParseCategory(c.category.value)
		if err != nil {
			return reportError(errOut, err)
		}
		changes.Category = &cat
	}
	if changes.Empty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --text, --priority or --category)")
		return exitcode.UserError
	}

	t, err := ResolveTaskRef(env.Store, ref)
	if err != nil {
		return reportRefError(errOut, err)
	}
	t, err = env.Store.Edit(t.ID, changes)
	if persisted(err) && !env.Config.Quiet {
		output.FormatTask(out, t)
	}
	return reportError(errOut, err)
}

// optionalString is a flag.Value that records whether it was set, so an
// explicit empty value can be told apart from an absent flag.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}
