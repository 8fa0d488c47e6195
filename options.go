package scannercli

import (
	"io"
	"log/slog"

	"github.com/wagiedev/scanner-cli-go/internal/config"
)

// Options configures a Scanner.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithOutput sets where command lines and streamed CLI output are written.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithCliPath sets the explicit path to the analysis CLI binary.
// If not set, SCANNER_CLI_PATH, PATH and common install locations are searched.
func WithCliPath(path string) Option {
	return func(o *Options) {
		o.CliPath = path
	}
}

// WithDiscoverer overrides CLI discovery. Takes precedence over WithCliPath.
func WithDiscoverer(d Discoverer) Option {
	return func(o *Options) {
		o.Discoverer = d
	}
}

// WithEnv provides additional environment variables for the CLI process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithTempDir sets the directory for intermediate files.
func WithTempDir(dir string) Option {
	return func(o *Options) {
		o.TempDir = dir
	}
}

// ===== Invocation Behavior =====

// WithExtraOptions sets the user's extra options tree, replacing the one from
// SCANNER_ACTION_EXTRA_OPTIONS.
func WithExtraOptions(tree *ExtraOptions) Option {
	return func(o *Options) {
		o.ExtraOptions = tree
	}
}

// WithPlatform sets the orchestration platform used by platform-dependent
// capabilities.
func WithPlatform(platform Platform) Option {
	return func(o *Options) {
		o.Platform = platform
	}
}

// WithFeatures sets the runtime feature enablement oracle.
func WithFeatures(features FeatureEnablement) Option {
	return func(o *Options) {
		o.Features = features
	}
}

// WithPatcher replaces the SARIF repair applied for CLI versions with the
// invalid notifications defect.
func WithPatcher(patcher SarifPatcher) Option {
	return func(o *Options) {
		o.Patcher = patcher
	}
}

// ===== Version Handling =====

// WithVersionResolver isolates the version cache, e.g. in tests.
func WithVersionResolver(resolver *VersionResolver) Option {
	return func(o *Options) {
		o.VersionResolver = resolver
	}
}

// WithSkipVersionCheck disables the minimum supported version check.
func WithSkipVersionCheck(skip bool) Option {
	return func(o *Options) {
		o.SkipVersionCheck = skip
	}
}
