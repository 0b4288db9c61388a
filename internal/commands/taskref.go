package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskpad/internal/task"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ErrAmbiguousRef indicates a short reference matched more than one task.
var ErrAmbiguousRef = errors.New("ambiguous task reference")

// ParseTaskRef parses a task reference from args.
//
// A reference is the task id as printed by list, optionally prefixed with
// '#', or a trailing part of it. Exactly one positional argument is accepted.
func ParseTaskRef(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrTaskRefRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	ref := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if !isAllDigits(ref) {
		return "", fmt.Errorf("invalid task reference: %s", args[0])
	}
	return ref, nil
}

// ResolveTaskRef finds the task a reference points to. An exact id match
// wins; otherwise the reference must be the suffix of exactly one id.
func ResolveTaskRef(s *task.Store, ref string) (task.Task, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if t, err := s.Get(id); err == nil {
			return t, nil
		}
	}

	var matches []task.Task
	for _, t := range s.Tasks() {
		if strings.HasSuffix(strconv.FormatInt(t.ID, 10), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return task.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, len(matches))
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
