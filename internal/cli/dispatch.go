package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"taskpad/internal/commands"
	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/storage"
	"taskpad/internal/task"
)

// StoreFactory opens the task store described by cfg.
// A *task.PersistenceError alongside a non-nil store means the stored
// collection could not be read; the store starts empty and never saves.
type StoreFactory func(cfg *config.Config, logger *slog.Logger) (*task.Store, error)

// RemoteFactory creates a Remote from config.
// Used to inject the backend during dispatch.
type RemoteFactory func(ctx context.Context, cfg *config.Config) (service.Remote, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	stores   StoreFactory
	remotes  RemoteFactory

	// Stdin is handed to commands that read input; nil disables it.
	Stdin io.Reader

	// Now is the clock commands use; defaults to time.Now.
	Now func() time.Time

	// CheckAuthFiles makes remote commands fail early when
	// oauth_client.json or token.json is missing.
	CheckAuthFiles bool
}

// NewDispatcher creates a new dispatcher with the given registry and
// factories. A nil stores falls back to OpenStore.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, remotes RemoteFactory) *Dispatcher {
	if stores == nil {
		stores = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		stores:   stores,
		remotes:  remotes,
		Now:      time.Now,
	}
}

// OpenStore opens the configured storage backend and loads the task store
// from it.
func OpenStore(cfg *config.Config, logger *slog.Logger) (*task.Store, error) {
	slot, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	return task.Open(slot, task.WithKey(cfg.Key), task.WithLogger(logger))
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Bare flags (taskpad --debug) list with those flags
	if strings.HasPrefix(cmdName, "-") {
		return d.dispatch(ctx, "list", args, out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		if s := d.suggest(cmdName); s != "" {
			fmt.Fprintf(errOut, "did you mean: %s?\n", s)
		}
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// suggest returns the only registered name that starts with prefix.
func (d *Dispatcher) suggest(prefix string) string {
	var match string
	for _, name := range d.registry.Names() {
		if strings.HasPrefix(name, prefix) {
			if match != "" {
				return ""
			}
			match = name
		}
	}
	return match
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	env := &commands.Env{
		Config: cfg,
		Logger: newLogger(errOut, debug),
		Stdin:  d.Stdin,
		Now:    d.Now,
	}
	env.Logger.Debug("dispatching", "command", cmd.Name(), "config", cfg.Dir, "backend", cfg.Storage.Backend)

	// Check auth requirements
	if cmd.NeedsAuth() {
		if code, ok := d.connectRemote(ctx, cfg, env, errOut); !ok {
			return code
		}
	}

	if cmd.NeedsStore() {
		store, err := d.stores(cfg, env.Logger)
		var perr *task.PersistenceError
		switch {
		case err == nil:
		case store != nil && errors.As(err, &perr):
			// Read-only commands see an empty collection; the store refuses
			// to write so the stored tasks are not overwritten.
			fmt.Fprintf(errOut, "warning: could not load tasks, changes will not be saved: %v\n", perr)
		default:
			fmt.Fprintf(errOut, "error: storage error: %v\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := store.Close(); err != nil {
				env.Logger.Debug("failed to close storage", "error", err)
			}
		}()
		env.Store = store
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// connectRemote creates the remote service for commands that need one.
func (d *Dispatcher) connectRemote(ctx context.Context, cfg *config.Config, env *commands.Env, errOut io.Writer) (int, bool) {
	if d.remotes == nil {
		fmt.Fprintln(errOut, "error: remote service not available")
		return exitcode.BackendError, false
	}

	if d.CheckAuthFiles {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError, false
		}
		if !cfg.HasToken() {
			fmt.Fprintf(errOut, "error: not logged in (run: taskpad login)\n")
			return exitcode.AuthError, false
		}
	}

	remote, err := d.remotes(ctx, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError, false
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError, false
	}
	env.Remote = remote
	return exitcode.Success, true
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}

// newLogger returns a text logger on w at debug level when debug is set,
// otherwise a logger that discards everything.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
