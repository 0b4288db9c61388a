// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskpad/internal/service"
	"taskpad/internal/task"
)

// FormatTask formats a task line.
// Format: "{ID}  [x] {PRIO:<6}  {TEXT}  ({category})\n". The category suffix
// is omitted for tasks without one.
func FormatTask(w io.Writer, t task.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%d  [%s] %-6s  %s", t.ID, mark, t.Priority, normalizeText(t.Text))
	if t.Category != "" {
		fmt.Fprintf(w, "  (%s)", t.Category)
	}
	fmt.Fprintln(w)
}

// FormatFooter formats the "N of M tasks" line printed under a view.
func FormatFooter(w io.Writer, visible, total int) {
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "%d of %d %s\n", visible, total, noun)
}

// FormatEmpty formats the placeholder for an empty view.
func FormatEmpty(w io.Writer, f task.Filter) {
	switch f {
	case task.FilterActive:
		fmt.Fprintln(w, "No active tasks.")
	case task.FilterCompleted:
		fmt.Fprintln(w, "No completed tasks.")
	case task.FilterHigh:
		fmt.Fprintln(w, "No high priority tasks.")
	default:
		fmt.Fprintln(w, "No tasks yet.")
	}
}

// FormatStats formats the dashboard counters.
func FormatStats(w io.Writer, st task.Stats) {
	fmt.Fprintf(w, "Total:       %d\n", st.Total)
	fmt.Fprintf(w, "Completed:   %d\n", st.Completed)
	fmt.Fprintf(w, "Pending:     %d\n", st.Pending)
	fmt.Fprintf(w, "High:        %d\n", st.HighPriority)
	fmt.Fprintf(w, "Completion:  %d%%\n", st.CompletionRate)
	fmt.Fprintf(w, "By priority: high %d, medium %d, low %d\n",
		st.ByPriority.High, st.ByPriority.Medium, st.ByPriority.Low)
}

// FormatImportReport formats the result of an import.
func FormatImportReport(w io.Writer, rep task.ImportReport) {
	fmt.Fprintf(w, "Imported %d %s", rep.Added, plural(rep.Added, "task", "tasks"))
	if rep.Duplicates > 0 {
		fmt.Fprintf(w, ", skipped %d existing", rep.Duplicates)
	}
	if len(rep.Rejected) > 0 {
		fmt.Fprintf(w, ", rejected %d", len(rep.Rejected))
	}
	fmt.Fprintln(w)
}

// FormatRejections writes one indented line per rejected import entry.
func FormatRejections(w io.Writer, rejected []task.Rejection) {
	for _, r := range rejected {
		fmt.Fprintf(w, "  %s\n", r)
	}
}

// FormatListName formats a remote list name for the lists command.
func FormatListName(w io.Writer, list service.TaskList) {
	title := list.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	if list.IsDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// normalizeText flattens a task text onto one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
