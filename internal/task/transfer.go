package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// requiredFields must be present and non-empty on every imported entry.
var requiredFields = []string{"id", "text", "priority", "category"}

// ImportReport summarizes an import.
type ImportReport struct {
	// Added is the number of tasks merged into the collection.
	Added int

	// Duplicates counts valid entries skipped because their id already exists.
	Duplicates int

	// Rejected lists entries that failed the schema check.
	Rejected []Rejection
}

// Export returns the full collection as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportFilename returns the conventional export file name for day now.
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("tasks-%s.%s", now.Format(time.DateOnly), ext)
}

// Import merges tasks from an exported document and returns how many were
// added. See ImportWithReport.
func (s *Store) Import(blob []byte) (int, error) {
	rep, err := s.ImportWithReport(blob)
	return rep.Added, err
}

// ImportWithReport merges tasks from blob, which must be a JSON array of
// task objects. Entries missing id, text, priority or category are skipped,
// as are entries whose id already exists. New tasks are appended after the
// existing ones. If no entry passes the schema check the collection is left
// unchanged and a *ValidationError listing the rejections is returned.
func (s *Store) ImportWithReport(blob []byte) (ImportReport, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(blob), &entries); err != nil || entries == nil {
		return ImportReport{}, &ValidationError{Reason: "import must be a JSON array of tasks"}
	}

	var rep ImportReport
	valid := make([]Task, 0, len(entries))
	for i, raw := range entries {
		t, rej, ok := decodeEntry(i, raw)
		if !ok {
			rep.Rejected = append(rep.Rejected, rej)
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return rep, &ValidationError{Reason: "no valid tasks found in import", Rejected: rep.Rejected}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	seen := make(map[int64]bool, len(s.tasks)+len(valid))
	for _, t := range s.tasks {
		seen[t.ID] = true
	}
	for _, t := range valid {
		if seen[t.ID] {
			rep.Duplicates++
			continue
		}
		seen[t.ID] = true
		normalizeImported(&t, now)
		s.tasks = append(s.tasks, t)
		s.lastID = max(s.lastID, t.ID)
		rep.Added++
	}
	s.logger.Debug("imported tasks", "added", rep.Added, "duplicates", rep.Duplicates, "rejected", len(rep.Rejected))
	if rep.Added == 0 {
		return rep, nil
	}
	return rep, s.persist()
}

// decodeEntry checks one imported entry against the task schema.
func decodeEntry(index int, raw json.RawMessage) (Task, Rejection, bool) {
	rej := Rejection{Index: index}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		rej.Reason = "not an object"
		return Task{}, rej, false
	}
	for _, name := range requiredFields {
		if isEmptyJSON(fields[name]) {
			rej.Missing = append(rej.Missing, name)
		}
	}
	if len(rej.Missing) > 0 {
		return Task{}, rej, false
	}

	var t Task
	if err := json.Unmarshal(raw, &t); err != nil {
		rej.Reason = fmt.Sprintf("malformed field: %v", err)
		return Task{}, rej, false
	}
	if t.ID == 0 {
		rej.Missing = []string{"id"}
		return Task{}, rej, false
	}
	if !t.Priority.Valid() {
		rej.Reason = fmt.Sprintf("unknown priority %q", t.Priority)
		return Task{}, rej, false
	}
	if t.Category == "" || !t.Category.Valid() {
		rej.Reason = fmt.Sprintf("unknown category %q", t.Category)
		return Task{}, rej, false
	}
	text, err := normalizeText(t.Text)
	if err != nil {
		rej.Missing = []string{"text"}
		return Task{}, rej, false
	}
	t.Text = text
	return t, rej, true
}

// isEmptyJSON reports whether a field is absent, null, false, zero or "".
func isEmptyJSON(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

// normalizeImported restores the task invariants on an imported entry.
func normalizeImported(t *Task, now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if !t.Completed {
		t.CompletedAt = nil
		return
	}
	if t.CompletedAt == nil {
		at := t.CreatedAt
		t.CompletedAt = &at
	}
}
