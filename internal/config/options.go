// Package config provides configuration types for the analysis CLI
// invocation layer.
package config

import (
	"io"
	"log/slog"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/cli"
	"github.com/wagiedev/scanner-cli-go/internal/overlay"
	"github.com/wagiedev/scanner-cli-go/internal/sarif"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// Options configures the analysis CLI invocation layer.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Output receives command lines, streamed stdout and echoed stderr.
	// If nil, os.Stdout is used.
	Output io.Writer

	// CliPath is an explicit path to the analysis CLI binary.
	CliPath string

	// Discoverer overrides CLI discovery, e.g. with the result of a tool
	// installation step. Takes precedence over CliPath.
	Discoverer cli.Discoverer

	// ExtraOptions is the user's extra options tree. If nil, the tree is read
	// from the SCANNER_ACTION_EXTRA_OPTIONS environment variable.
	ExtraOptions *overlay.Tree

	// Platform is the orchestration platform the pipeline runs on.
	Platform capability.Platform

	// Patcher repairs SARIF output from CLI versions with the invalid
	// notifications defect. Defaults to sarif.NotificationFixer.
	Patcher sarif.Patcher

	// TempDir stages intermediate files. Defaults to $RUNNER_TEMP, then the
	// system temporary directory.
	TempDir string

	// Features is the runtime feature enablement oracle.
	Features FeatureEnablement

	// VersionResolver overrides the process-wide version cache, e.g. to
	// isolate tests.
	VersionResolver *version.Resolver

	// SkipVersionCheck disables the minimum version gate.
	SkipVersionCheck bool

	// Env provides additional environment variables for the CLI process.
	Env map[string]string
}
