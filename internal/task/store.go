package task

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"taskpad/internal/storage"
)

// DefaultKey is the slot key the collection is stored under.
const DefaultKey = "tasks"

// Slot is the durable key-value entry the collection is persisted to.
// Load returns storage.ErrNotFound for a key that was never written.
type Slot interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key. Defaults to DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store owns the task collection. All mutations go through it, and each one
// writes the full collection back to the slot before returning.
//
// Mutations that applied but could not be written return their normal result
// together with a *PersistenceError.
type Store struct {
	mu     sync.Mutex
	slot   Slot
	key    string
	now    func() time.Time
	logger *slog.Logger

	tasks  []Task // newest first
	lastID int64
	filter Filter
	sort   Sort

	// loadErr is set when the stored collection could not be read. The
	// slot is never written while it is set.
	loadErr error
}

// Open creates a Store and loads the collection from slot.
// A missing key yields an empty collection. An unreadable or corrupt blob is
// logged and also yields an empty collection; the returned error is then a
// *PersistenceError and the Store is still usable. Such a Store never writes
// to the slot, so the stored blob survives for a later successful load.
func Open(slot Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tasks:  []Task{},
		filter: FilterAll,
		sort:   SortNewest,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Load(s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("no stored tasks", "key", s.key)
			return s, nil
		}
		s.logger.Warn("failed to load tasks", "key", s.key, "error", err)
		s.loadErr = &PersistenceError{Op: "load", Key: s.key, Err: err}
		return s, s.loadErr
	}

	var loaded []Task
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("stored tasks are corrupt", "key", s.key, "error", err)
		s.loadErr = &PersistenceError{Op: "decode", Key: s.key, Err: err}
		return s, s.loadErr
	}
	if loaded != nil {
		s.tasks = loaded
	}
	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(s.tasks))
	return s, nil
}

// Close releases the slot if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.slot.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Add creates a task from text, priority and category and puts it first.
// An empty priority defaults to medium.
func (s *Store) Add(text string, priority Priority, category Category) (Task, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Task{}, err
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	if !category.Valid() {
		return Task{}, &ValidationError{Field: "category", Reason: "is not a known category"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	t := Task{
		ID:        s.nextID(now),
		Text:      text,
		Priority:  priority,
		Category:  category,
		CreatedAt: now,
	}
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.logger.Debug("added task", "id", t.ID)
	return t, s.persist()
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Task{}, notFound(id)
	}
	return s.tasks[i], nil
}

// Toggle flips the completion state of a task.
func (s *Store) Toggle(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Task{}, notFound(id)
	}
	t := &s.tasks[i]
	if t.Completed {
		t.reopen()
	} else {
		t.complete(s.clock())
	}
	s.logger.Debug("toggled task", "id", id, "completed", t.Completed)
	return *t, s.persist()
}

// Edit applies the set fields of c to a task. The id and creation time
// never change.
func (s *Store) Edit(id int64, c Changes) (Task, error) {
	var text string
	if c.Text != nil {
		var err error
		if text, err = normalizeText(*c.Text); err != nil {
			return Task{}, err
		}
	}
	if c.Priority != nil && !c.Priority.Valid() {
		return Task{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	if c.Category != nil && !c.Category.Valid() {
		return Task{}, &ValidationError{Field: "category", Reason: "is not a known category"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Task{}, notFound(id)
	}
	t := &s.tasks[i]
	if c.Text != nil {
		t.Text = text
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.Category != nil {
		t.Category = *c.Category
	}
	s.logger.Debug("edited task", "id", id)
	return *t, s.persist()
}

// Delete removes a task.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return notFound(id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Debug("deleted task", "id", id)
	return s.persist()
}

// DeleteCompleted removes every completed task and returns how many were
// removed. Removing nothing is not an error and does not write.
func (s *Store) DeleteCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	if removed == 0 {
		return 0, nil
	}
	s.logger.Debug("deleted completed tasks", "count", removed)
	return removed, s.persist()
}

// MarkAllComplete completes every incomplete task and returns how many
// changed. Tasks that were already completed keep their completion time.
func (s *Store) MarkAllComplete() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	changed := 0
	for i := range s.tasks {
		if !s.tasks[i].Completed {
			s.tasks[i].complete(now)
			changed++
		}
	}
	s.logger.Debug("marked all tasks complete", "count", changed)
	return changed, s.persist()
}

// ClearAll removes every task.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []Task{}
	s.logger.Debug("cleared all tasks")
	return s.persist()
}

// Tasks returns a copy of the collection in stored order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// clock returns the current time in UTC at millisecond precision so that
// timestamps survive a JSON round trip unchanged.
func (s *Store) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// nextID derives an id from now, bumping past the last issued id when the
// clock has not advanced.
func (s *Store) nextID(now time.Time) int64 {
	id := max(now.UnixMilli(), s.lastID+1)
	s.lastID = id
	return id
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// persist writes the whole collection. Callers hold s.mu.
func (s *Store) persist() error {
	if s.loadErr != nil {
		s.logger.Warn("not saving tasks after failed load", "key", s.key, "error", s.loadErr)
		return &PersistenceError{Op: "save", Key: s.key, Err: ErrNotLoaded}
	}
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: s.key, Err: err}
	}
	if err := s.slot.Save(s.key, data); err != nil {
		s.logger.Warn("failed to save tasks", "key", s.key, "error", err)
		return &PersistenceError{Op: "save", Key: s.key, Err: err}
	}
	return nil
}
