package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskpad/internal/task"
)

// Export formats accepted by the export command.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Formats lists the export formats.
var Formats = []string{FormatJSON, FormatCSV, FormatPDF}

var csvHeader = []string{"id", "text", "priority", "category", "completed", "createdAt", "completedAt"}

// WriteCSV writes tasks as CSV with a header row. Timestamps are RFC 3339.
func WriteCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Text,
			string(t.Priority),
			string(t.Category),
			strconv.FormatBool(t.Completed),
			t.CreatedAt.Format(time.RFC3339),
			completedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePDF writes a one-document task report: a summary block followed by
// one line per task.
func WritePDF(w io.Writer, tasks []task.Task, st task.Stats, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task Report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	summary := fmt.Sprintf("%d tasks, %d completed, %d pending, %d high priority, %d%% complete",
		st.Total, st.Completed, st.Pending, st.HighPriority, st.CompletionRate)
	pdf.MultiCell(0, 6, summary, "0", "L", false)
	pdf.Ln(4)

	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-6s %s", mark, strings.ToUpper(string(t.Priority)), normalizeText(t.Text))
		if t.Category != "" {
			line += fmt.Sprintf(" (%s)", t.Category)
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
