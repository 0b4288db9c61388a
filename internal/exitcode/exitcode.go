// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found,
	// missing --force).
	UserError = 1

	// ConfigError indicates an unreadable config file or directory.
	ConfigError = 2

	// AuthError indicates a missing or rejected OAuth login.
	AuthError = 2

	// StorageError indicates the task slot could not be opened, read or
	// written.
	StorageError = 3

	// BackendError indicates a remote API or network error.
	BackendError = 3
)
