package task_test

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"taskpad/internal/task"
)

func TestExport_PrettyJSONArray(t *testing.T) {
	s, _ := openStore(t)
	mustAdd(t, s, "Buy milk", task.PriorityMedium)

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n  {\n    \"id\": ") {
		t.Errorf("expected 2-space indented array, got:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "]\n") {
		t.Errorf("expected trailing newline, got %q", data[len(data)-3:])
	}

	var decoded []task.Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Text != "Buy milk" {
		t.Errorf("unexpected export contents: %+v", decoded)
	}
}

func TestExport_Empty(t *testing.T) {
	s, _ := openStore(t)

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("expected empty array, got %q", data)
	}
}

func TestExportFilename(t *testing.T) {
	got := task.ExportFilename(time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC), "json")
	if got != "tasks-2026-03-07.json" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestImport_ExportRoundTrip(t *testing.T) {
	src, _ := openStore(t)
	a, _ := src.Add("Buy milk", task.PriorityHigh, task.CategoryShopping)
	src.Add("Read book", task.PriorityLow, task.CategoryLearning)
	src.Toggle(a.ID)
	blob, _ := src.Export()

	dst, _ := openStore(t)
	n, err := dst.Import(blob)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	got, err := dst.Get(a.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Completed || got.CompletedAt == nil || got.Category != task.CategoryShopping {
		t.Errorf("imported task lost fields: %+v", got)
	}
}

func TestImport_AppendsAfterExisting(t *testing.T) {
	s, _ := openStore(t)
	mustAdd(t, s, "local", task.PriorityLow)

	blob := `[{"id": 1, "text": "imported", "priority": "low", "category": "work"}]`
	if _, err := s.Import([]byte(blob)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if got := texts(s.Tasks()); !equalStrings(got, []string{"local", "imported"}) {
		t.Errorf("expected imported task last, got %v", got)
	}
}

func TestImport_SkipsExistingIDs(t *testing.T) {
	s, slot := openStore(t)
	existing := mustAdd(t, s, "original", task.PriorityLow)
	saves := slot.Saves

	blob := `[{"id": ` + strconv.FormatInt(existing.ID, 10) + `, "text": "changed", "priority": "high", "category": "work"}]`
	rep, err := s.ImportWithReport([]byte(blob))
	if err != nil {
		t.Fatalf("ImportWithReport() error = %v", err)
	}
	if rep.Added != 0 || rep.Duplicates != 1 {
		t.Errorf("unexpected report: %+v", rep)
	}
	got, _ := s.Get(existing.ID)
	if got.Text != "original" || got.Priority != task.PriorityLow {
		t.Errorf("existing task changed: %+v", got)
	}
	if slot.Saves != saves {
		t.Error("import with nothing new should not write")
	}
}

func TestImport_DuplicateIDsWithinBlob(t *testing.T) {
	s, _ := openStore(t)

	blob := `[
		{"id": 5, "text": "first", "priority": "low", "category": "work"},
		{"id": 5, "text": "second", "priority": "low", "category": "work"}
	]`
	rep, err := s.ImportWithReport([]byte(blob))
	if err != nil {
		t.Fatalf("ImportWithReport() error = %v", err)
	}
	if rep.Added != 1 || rep.Duplicates != 1 {
		t.Errorf("unexpected report: %+v", rep)
	}
	got, _ := s.Get(5)
	if got.Text != "first" {
		t.Errorf("expected first entry to win, got %q", got.Text)
	}
}

func TestImport_ReportsRejectedEntries(t *testing.T) {
	s, _ := openStore(t)

	blob := `[
		{"id": 1, "text": "ok", "priority": "low", "category": "work"},
		{"id": 2, "priority": "low"},
		{"id": 3, "text": "bad", "priority": "urgent", "category": "work"},
		"not an object"
	]`
	rep, err := s.ImportWithReport([]byte(blob))
	if err != nil {
		t.Fatalf("ImportWithReport() error = %v", err)
	}
	if rep.Added != 1 {
		t.Errorf("expected 1 added, got %d", rep.Added)
	}
	if len(rep.Rejected) != 3 {
		t.Fatalf("expected 3 rejections, got %+v", rep.Rejected)
	}
	if got := rep.Rejected[0].String(); got != "entry 1: missing text, category" {
		t.Errorf("unexpected rejection %q", got)
	}
	if got := rep.Rejected[1].String(); got != `entry 2: unknown priority "urgent"` {
		t.Errorf("unexpected rejection %q", got)
	}
	if got := rep.Rejected[2].String(); got != "entry 3: not an object" {
		t.Errorf("unexpected rejection %q", got)
	}
}

func TestImport_NoValidEntries(t *testing.T) {
	s, slot := openStore(t)
	mustAdd(t, s, "keep me", task.PriorityLow)
	saves := slot.Saves

	_, err := s.Import([]byte(`[{"text": "no id"}]`))

	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Rejected) != 1 {
		t.Errorf("expected rejection details, got %+v", verr.Rejected)
	}
	if s.Len() != 1 || slot.Saves != saves {
		t.Error("failed import changed state")
	}
}

func TestImport_NotAnArray(t *testing.T) {
	tests := []string{
		``,
		`null`,
		`{"id": 1}`,
		`"tasks"`,
		`[{"id": 1,`,
	}
	for _, blob := range tests {
		s, _ := openStore(t)
		if _, err := s.Import([]byte(blob)); !errors.Is(err, task.ErrValidation) {
			t.Errorf("Import(%q) expected validation error, got %v", blob, err)
		}
	}
}

func TestImport_EmptyArray(t *testing.T) {
	s, _ := openStore(t)

	if _, err := s.Import([]byte(`[]`)); !errors.Is(err, task.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestImport_NormalizesCompletion(t *testing.T) {
	s, _ := openStore(t)

	blob := `[
		{"id": 1, "text": "open with stamp", "priority": "low", "category": "work",
		 "completed": false, "createdAt": "2026-01-01T00:00:00Z", "completedAt": "2026-01-02T00:00:00Z"},
		{"id": 2, "text": "done without stamp", "priority": "low", "category": "work",
		 "completed": true, "createdAt": "2026-01-01T00:00:00Z"},
		{"id": 3, "text": "no created", "priority": "low", "category": "work"}
	]`
	if _, err := s.Import([]byte(blob)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	open, _ := s.Get(1)
	if open.CompletedAt != nil {
		t.Errorf("expected completedAt cleared, got %v", open.CompletedAt)
	}
	done, _ := s.Get(2)
	if done.CompletedAt == nil || !done.CompletedAt.Equal(done.CreatedAt) {
		t.Errorf("expected completedAt = createdAt, got %v", done.CompletedAt)
	}
	fresh, _ := s.Get(3)
	if !fresh.CreatedAt.Equal(epoch) {
		t.Errorf("expected createdAt defaulted to now, got %v", fresh.CreatedAt)
	}
}

func TestImport_AdvancesIDs(t *testing.T) {
	s, _ := openStore(t)
	future := epoch.Add(24 * time.Hour).UnixMilli()

	blob := `[{"id": ` + strconv.FormatInt(future, 10) + `, "text": "x", "priority": "low", "category": "work"}]`
	if _, err := s.Import([]byte(blob)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	tk := mustAdd(t, s, "after import", task.PriorityLow)
	if tk.ID <= future {
		t.Errorf("expected id after %d, got %d", future, tk.ID)
	}
}
