package cli

// Exit codes returned through CommandError.
const (
	ExitFailure    = 1
	ExitValidation = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return it after printing their own diagnostics to stderr, so main
// only has to exit with the code.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
