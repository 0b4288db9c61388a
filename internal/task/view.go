package task

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterHigh      Filter = "high"
)

// Filters lists the valid filters.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted, FilterHigh}

// ParseFilter parses a filter name. "high-priority" is accepted for high.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted, FilterHigh:
		return f, nil
	case "high-priority":
		return FilterHigh, nil
	}
	return "", &ValidationError{Field: "filter", Reason: "must be one of all, active, completed, high"}
}

func (f Filter) match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterHigh:
		return t.Priority == PriorityHigh
	}
	return true
}

// Sort orders a view.
type Sort string

const (
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortPriority Sort = "priority"
	SortName     Sort = "name"
)

// Sorts lists the valid sort orders.
var Sorts = []Sort{SortNewest, SortOldest, SortPriority, SortName}

// ParseSort parses a sort name. "date" and "date-oldest" are accepted for
// newest and oldest.
func ParseSort(s string) (Sort, error) {
	switch o := Sort(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortPriority, SortName:
		return o, nil
	case "date":
		return SortNewest, nil
	case "date-oldest":
		return SortOldest, nil
	}
	return "", &ValidationError{Field: "sort", Reason: "must be one of newest, oldest, priority, name"}
}

// apply sorts tasks in place. The sort is stable so equal keys keep
// stored order.
func (o Sort) apply(tasks []Task) {
	switch o {
	case SortNewest:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortPriority:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			if d := b.Priority.rank() - a.Priority.rank(); d != 0 {
				return d
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortName:
		col := collate.New(language.English)
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return col.CompareString(a.Text, b.Text)
		})
	}
}

// SetFilter changes the view filter. View settings are not persisted.
func (s *Store) SetFilter(f Filter) error {
	f, err := ParseFilter(string(f))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	return nil
}

// SetSort changes the view order. View settings are not persisted.
func (s *Store) SetSort(o Sort) error {
	o, err := ParseSort(string(o))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = o
	return nil
}

// Filter returns the current view filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Sort returns the current view order.
func (s *Store) Sort() Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// View returns the filtered, then sorted, tasks. The stored collection is
// not modified.
func (s *Store) View() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Store) view() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.match(t) {
			out = append(out, t)
		}
	}
	s.sort.apply(out)
	return out
}

// PriorityCounts breaks tasks down by priority.
type PriorityCounts struct {
	Low    int
	Medium int
	High   int
}

// Stats are aggregate counts over the whole collection.
type Stats struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int

	// CompletionRate is round(Completed/Total*100), and 0 when Total is 0.
	CompletionRate int

	ByPriority PriorityCounts

	// Visible is the number of tasks in the current view.
	Visible int
}

// Stats computes aggregate counts.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
		switch t.Priority {
		case PriorityHigh:
			st.ByPriority.High++
		case PriorityMedium:
			st.ByPriority.Medium++
		case PriorityLow:
			st.ByPriority.Low++
		}
	}
	st.Pending = st.Total - st.Completed
	st.HighPriority = st.ByPriority.High
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	for _, t := range s.tasks {
		if s.filter.match(t) {
			st.Visible++
		}
	}
	return st
}
