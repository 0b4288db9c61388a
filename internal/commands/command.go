// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"time"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/task"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or changes local tasks.
	NeedsStore() bool

	// NeedsAuth returns true if the command talks to the remote service.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is everything a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, storage settings).
	Config *config.Config

	// Logger writes debug logs; never nil.
	Logger *slog.Logger

	// Store is nil if NeedsStore() returns false.
	Store *task.Store

	// Remote is nil if NeedsAuth() returns false.
	Remote service.Remote

	// Stdin is read by import when the file argument is "-".
	Stdin io.Reader

	// Now is the wall clock; used for export file names.
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
