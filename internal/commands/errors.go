package commands

import (
	"errors"
	"fmt"
	"io"

	"taskpad/internal/exitcode"
	"taskpad/internal/task"
)

// reportError prints err in CLI form and returns the matching exit code.
// A nil err is success.
func reportError(errOut io.Writer, err error) int {
	var perr *task.PersistenceError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &perr):
		fmt.Fprintf(errOut, "warning: change applied but not saved: %v\n", perr)
		return exitcode.StorageError
	}
	// validation, not found and ambiguous references
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// reportRefError handles failures from ParseTaskRef and ResolveTaskRef.
func reportRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	return reportError(errOut, err)
}

// persisted is true when err is nil or only reports a failed write, in which
// case the mutation itself took effect.
func persisted(err error) bool {
	var perr *task.PersistenceError
	return err == nil || errors.As(err, &perr)
}

// requireForce rejects destructive commands run without --force.
func requireForce(errOut io.Writer, force bool, what string) bool {
	if force {
		return true
	}
	fmt.Fprintf(errOut, "error: %s requires --force\n", what)
	return false
}
