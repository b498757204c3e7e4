// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid input).
	UserError = 1

	// ConfigError indicates an unreadable secrets file or missing credentials.
	ConfigError = 2

	// BackendError indicates a database, API or network error.
	BackendError = 3
)
