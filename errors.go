package scannercli

import "github.com/wagiedev/scanner-cli-go/internal/errors"

// Re-export error types from internal package

// ScannerError is the base interface for all invocation layer errors.
type ScannerError = errors.ScannerError

// NotFoundError indicates the analysis CLI binary was not found.
type NotFoundError = errors.NotFoundError

// ConfigurationError indicates a user-correctable configuration problem.
type ConfigurationError = errors.ConfigurationError

// InvocationError indicates the analysis CLI exited non-zero.
type InvocationError = errors.InvocationError

// MalformedOutputError indicates the analysis CLI produced unparseable output.
type MalformedOutputError = errors.MalformedOutputError

// FailureCategory names a known, user-correctable CLI failure.
type FailureCategory = errors.Category

// Re-export sentinel errors from internal package.
var (
	// ErrNotImplemented is returned by test doubles for unconfigured operations.
	ErrNotImplemented = errors.ErrNotImplemented

	// ErrUnknownCapability indicates a capability token that is not registered.
	ErrUnknownCapability = errors.ErrUnknownCapability

	// ErrBelowMinimumVersion indicates the CLI is older than supported.
	ErrBelowMinimumVersion = errors.ErrBelowMinimumVersion
)

// WrapKnown upgrades a known user-correctable InvocationError into a
// ConfigurationError. Other errors are returned unchanged.
func WrapKnown(err error) error {
	return errors.WrapKnown(err)
}
