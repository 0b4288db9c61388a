package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation references an absent task id.
var ErrNotFound = errors.New("task not found")

// ErrNotLoaded is the cause of every save attempted on a store whose
// collection failed to load.
var ErrNotLoaded = errors.New("stored tasks could not be loaded, refusing to overwrite them")

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Rejection describes one import entry that failed the schema check.
type Rejection struct {
	// Index is the 0-based position of the entry in the imported array.
	Index int

	// Missing lists required fields that were absent or empty.
	Missing []string

	// Reason is set when the entry was rejected for something other than
	// missing fields (wrong type, unknown enum value).
	Reason string
}

func (r Rejection) String() string {
	if len(r.Missing) > 0 {
		return fmt.Sprintf("entry %d: missing %s", r.Index, strings.Join(r.Missing, ", "))
	}
	return fmt.Sprintf("entry %d: %s", r.Index, r.Reason)
}

// ValidationError reports input that was rejected without any state change.
type ValidationError struct {
	Field  string
	Reason string

	// Rejected is populated by imports where no entry passed validation.
	Rejected []Rejection
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError reports a failed read or write of the slot. For writes the
// in-memory mutation has already been applied and stays authoritative for
// the rest of the session.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func notFound(id int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}
