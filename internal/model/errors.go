package model

import (
	"errors"
	"fmt"
)

// Sentinel errors of the error taxonomy. Callers wrap them with
// fmt.Errorf("...: %w", ...) and match them with errors.Is.
var (
	// ErrConfigCorrupt indicates the config file exists but cannot be
	// read or decoded. Fatal; the process exits with ExitGeneralError.
	ErrConfigCorrupt = errors.New("config file is corrupt")

	// ErrConfigWrite indicates the config file could not be created or
	// written. Fatal.
	ErrConfigWrite = errors.New("config file could not be written")

	// ErrSubmodulesFileMissing indicates the submodules declaration file
	// could not be read. Fatal for the current operation: an empty
	// inventory would be mistaken for a fully initialized project.
	ErrSubmodulesFileMissing = errors.New("submodules file could not be read")

	// ErrSubmoduleUpdateFailed indicates a single git submodule update
	// attempt failed to spawn or exited non-zero. Non-fatal.
	ErrSubmoduleUpdateFailed = errors.New("submodule update failed")

	// ErrDirectoryRemovalFailed indicates a single submodule directory
	// could not be removed. Non-fatal.
	ErrDirectoryRemovalFailed = errors.New("submodule directory removal failed")

	// ErrInvalidVersion indicates a version string is not valid
	// semantic versioning.
	ErrInvalidVersion = errors.New("invalid semantic version")
)

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed. Per-entry failures
	// during a sweep and a declined confirmation still exit with success.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates a fatal error, including a corrupt or
	// unwritable config file.
	ExitGeneralError ExitCode = 1

	// ExitSubmodulesFileMissing indicates the submodules declaration file
	// could not be read.
	ExitSubmodulesFileMissing ExitCode = 2
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor maps an error to the exit code the process should use.
// A CLIError anywhere in the chain wins; otherwise the sentinel decides.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}

	if errors.Is(err, ErrSubmodulesFileMissing) {
		return ExitSubmodulesFileMissing
	}
	return ExitGeneralError
}
