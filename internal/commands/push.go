package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/task"
)

func init() {
	Register(&PushCmd{})
}

// PushCmd implements the push command: it copies local tasks to a remote
// task list. Local tasks are not changed. Tasks whose title is already in
// the target list are skipped, so pushing twice does not duplicate them.
type PushCmd struct {
	listName string
	all      bool
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy tasks missing from a Google Tasks list" }
func (c *PushCmd) Usage() string     { return "taskpad push [--list <list-name>] [--all]" }
func (c *PushCmd) NeedsStore() bool  { return true }
func (c *PushCmd) NeedsAuth() bool   { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *PushCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Resolve list
	var list service.TaskList
	var err error
	if c.listName != "" {
		list, err = env.Remote.ResolveList(ctx, c.listName)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				fmt.Fprintf(errOut, "error: list not found: %s\n", c.listName)
				return exitcode.UserError
			}
			if strings.Contains(err.Error(), "ambiguous") {
				fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", c.listName)
				return exitcode.UserError
			}
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	} else {
		list, err = env.Remote.DefaultList(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	}

	existing, err := env.Remote.ListTasks(ctx, list.ID)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	present := make(map[string]bool, len(existing))
	for _, rt := range existing {
		present[titleKey(rt.Title)] = true
	}

	// oldest first, so the remote list ends up newest on top
	tasks := env.Store.Tasks()
	slices.Reverse(tasks)

	pushed, skipped := 0, 0
	for _, t := range tasks {
		if t.Completed && !c.all {
			continue
		}
		if present[titleKey(t.Text)] {
			env.Logger.Debug("skipping task already in list", "id", t.ID, "list", list.ID)
			skipped++
			continue
		}
		if err := env.Remote.CreateTask(ctx, list.ID, remoteTask(t)); err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			if pushed > 0 {
				fmt.Fprintf(errOut, "pushed %d %s before the failure\n", pushed, taskNoun(pushed))
			}
			return exitcode.BackendError
		}
		env.Logger.Debug("pushed task", "id", t.ID, "list", list.ID)
		pushed++
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "pushed %d %s to %s", pushed, taskNoun(pushed), list.Title)
		if skipped > 0 {
			fmt.Fprintf(out, ", skipped %d already there", skipped)
		}
		fmt.Fprintln(out)
	}
	return exitcode.Success
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// remoteTask maps a local task to the remote shape. Priority and category
// have no remote field and go into the notes.
func remoteTask(t task.Task) service.Task {
	notes := "priority: " + string(t.Priority)
	if t.Category != "" {
		notes += "\ncategory: " + string(t.Category)
	}
	return service.Task{
		Title:     t.Text,
		Notes:     notes,
		Completed: t.CompletedAt,
	}
}
