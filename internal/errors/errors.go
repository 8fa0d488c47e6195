package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ScannerError is the base interface for all errors raised by this module.
type ScannerError interface {
	error
	IsScannerError() bool
}

// Compile-time verification that all error types implement ScannerError.
var (
	_ ScannerError = (*NotFoundError)(nil)
	_ ScannerError = (*ConfigurationError)(nil)
	_ ScannerError = (*InvocationError)(nil)
	_ ScannerError = (*MalformedOutputError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotImplemented is returned by test doubles for operations they do not stub.
	ErrNotImplemented = errors.New("operation not implemented")

	// ErrUnknownCapability indicates a capability token with neither a feature
	// flag nor a registered minimum version. This is a programming error.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrBelowMinimumVersion indicates the analysis CLI is older than the
	// oldest supported release.
	ErrBelowMinimumVersion = errors.New("analysis CLI version below minimum")
)

// NotFoundError indicates the analysis CLI binary was not found.
type NotFoundError struct {
	SearchedPaths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("analysis CLI not found in: %v", e.SearchedPaths)
}

// IsScannerError implements ScannerError.
func (e *NotFoundError) IsScannerError() bool { return true }

// ConfigurationError indicates an unusable configuration: an unsupported
// analysis CLI version, a malformed extra options tree, or a CLI failure with
// a known user-correctable cause. It is never retried.
type ConfigurationError struct {
	Message string
	// Path locates the offending entry for extra options errors.
	Path []string
	// Category names the known failure signature, if any.
	Category string
	Err      error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder

	b.WriteString("configuration error")

	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at '%s'", strings.Join(e.Path, "."))
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsScannerError implements ScannerError.
func (e *ConfigurationError) IsScannerError() bool { return true }

// InvocationError indicates the analysis CLI process exited unsuccessfully.
type InvocationError struct {
	// Args is the full argument vector, executable first.
	Args     []string
	ExitCode int
	// Stderr is the bounded tail of the process's standard error.
	Stderr string
	Stdout string
	Err    error
}

func (e *InvocationError) Error() string {
	command := strings.Join(e.Args, " ")

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return fmt.Sprintf("analysis CLI command %q failed (exit %d): %s", command, e.ExitCode, stderr)
	}

	if e.Err != nil {
		return fmt.Sprintf("analysis CLI command %q failed (exit %d): %v", command, e.ExitCode, e.Err)
	}

	return fmt.Sprintf("analysis CLI command %q failed (exit %d)", command, e.ExitCode)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsScannerError implements ScannerError.
func (e *InvocationError) IsScannerError() bool { return true }

// MalformedOutputError indicates the analysis CLI produced output that does
// not parse as the expected structure. The raw output is preserved.
type MalformedOutputError struct {
	Command string
	RawData string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("unexpected output from analysis CLI command %q: %v", e.Command, e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// IsScannerError implements ScannerError.
func (e *MalformedOutputError) IsScannerError() bool { return true }
