package scanner

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/cli"
	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/errors"
	"github.com/wagiedev/scanner-cli-go/internal/overlay"
	"github.com/wagiedev/scanner-cli-go/internal/sarif"
	"github.com/wagiedev/scanner-cli-go/internal/subprocess"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// Scanner is the set of analysis CLI operations available to the pipeline.
type Scanner interface {
	// Version returns the CLI's version and feature flags.
	Version(ctx context.Context) (*version.Info, error)
	// PrintVersion narrates the CLI's version to the output sink.
	PrintVersion(ctx context.Context) error
	// SupportsFeature reports whether the CLI supports a capability.
	SupportsFeature(ctx context.Context, tok capability.Token) (bool, error)

	// DatabaseInitCluster creates one database per configured language.
	DatabaseInitCluster(ctx context.Context, analysis *config.Analysis, sourceRoot, processName string) error
	// RunAutobuild runs the language's autobuild script.
	RunAutobuild(ctx context.Context, analysis *config.Analysis, language string) error
	// ExtractScannedLanguage extracts a language that needs no build.
	ExtractScannedLanguage(ctx context.Context, analysis *config.Analysis, language string) error
	// ExtractUsingBuildMode extracts a language with the configured build mode.
	ExtractUsingBuildMode(ctx context.Context, analysis *config.Analysis, language, workingDir string) error
	// FinalizeDatabase finalizes a database after extraction.
	FinalizeDatabase(ctx context.Context, databasePath, threadsFlag, memoryFlag string, enableDebugLogging bool) error
	// DatabaseRunQueries evaluates queries against a database.
	DatabaseRunQueries(ctx context.Context, databasePath string, flags []string) error
	// DatabaseInterpretResults writes SARIF for evaluated queries and returns
	// the analysis summary.
	DatabaseInterpretResults(ctx context.Context, req *InterpretRequest) (string, error)
	// DatabasePrintBaseline returns the database's baseline summary.
	DatabasePrintBaseline(ctx context.Context, databasePath string) (string, error)
	// DatabaseBundle archives a database.
	DatabaseBundle(ctx context.Context, databasePath, outputFilePath, databaseName string) error
	// DatabaseExportDiagnostics writes a database's diagnostics as SARIF.
	DatabaseExportDiagnostics(ctx context.Context, analysis *config.Analysis, databasePath, sarifFile, automationDetailsID string) error
	// DatabaseCleanup trims a database's caches.
	DatabaseCleanup(ctx context.Context, databasePath, cleanupLevel string) error
	// DiagnosticsExport writes pipeline-level diagnostics as SARIF.
	DiagnosticsExport(ctx context.Context, analysis *config.Analysis, sarifFile, automationDetailsID string) error

	// ResolveLanguages maps each language to its extractor directories.
	ResolveLanguages(ctx context.Context) (map[string][]string, error)
	// BetterResolveLanguages returns extractor metadata and aliases.
	BetterResolveLanguages(ctx context.Context, filterToLanguagesWithQueries bool) (*BetterResolveLanguagesOutput, error)
	// ResolveQueries classifies query specifiers by language.
	ResolveQueries(ctx context.Context, queries []string, extraSearchPath string) (*ResolveQueriesOutput, error)
	// ResolveBuildEnvironment returns the build environment for a language.
	ResolveBuildEnvironment(ctx context.Context, workingDir, language string) (*BuildEnvironment, error)
	// ResolveExtractor returns the extractor directory for a language.
	ResolveExtractor(ctx context.Context, language string) (string, error)

	// PackDownload downloads query packs.
	PackDownload(ctx context.Context, packs []string, qlconfigFile string) (*PackDownloadOutput, error)
	// MergeResults merges SARIF files into one.
	MergeResults(ctx context.Context, sarifFiles []string, outputFile string, opts MergeOptions) error
}

// Compile-time verification that CLI implements Scanner.
var _ Scanner = (*CLI)(nil)

// CLI drives the analysis CLI binary.
type CLI struct {
	log              *slog.Logger
	discoverer       cli.Discoverer
	pathMu           sync.Mutex
	path             string
	runner           *subprocess.Runner
	versions         *version.Resolver
	gate             *capability.Gate
	extra            *overlay.Tree
	post             *sarif.PostProcessor
	features         config.FeatureEnablement
	env              []string
	skipVersionCheck bool
}

// New creates a CLI from options. The extra options tree is read from the
// environment when options does not carry one; a malformed tree is a
// ConfigurationError.
func New(options *config.Options) (*CLI, error) {
	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	extra := options.ExtraOptions
	if extra == nil {
		var err error

		extra, err = config.ExtraOptionsFromEnv()
		if err != nil {
			return nil, err
		}
	}

	discoverer := options.Discoverer
	if discoverer == nil {
		discoverer = cli.NewDiscoverer(&cli.Config{CliPath: options.CliPath, Logger: log})
	}

	tempDir := options.TempDir
	if tempDir == "" {
		tempDir = config.TempDirFromEnv()
	}

	patcher := options.Patcher
	if patcher == nil {
		patcher = sarif.NotificationFixer{Logger: log}
	}

	features := options.Features
	if features == nil {
		features = config.StaticFeatures{}
	}

	c := &CLI{
		log:              log.With("component", "scanner"),
		discoverer:       discoverer,
		runner:           subprocess.NewRunner(log, options.Output),
		versions:         options.VersionResolver,
		extra:            extra,
		post:             sarif.NewPostProcessor(patcher, tempDir, log),
		features:         features,
		env:              cli.BuildEnvironment(options.Env),
		skipVersionCheck: options.SkipVersionCheck || config.SkipVersionCheckFromEnv(),
	}

	c.gate = capability.NewGate(versionSource{c}, options.Platform)

	return c, nil
}

// executable discovers the CLI binary on first use. Failures are not cached.
func (c *CLI) executable(ctx context.Context) (string, error) {
	c.pathMu.Lock()
	defer c.pathMu.Unlock()

	if c.path != "" {
		return c.path, nil
	}

	path, err := c.discoverer.Discover(ctx)
	if err != nil {
		return "", err
	}

	c.path = path

	return path, nil
}

// command is one analysis CLI invocation before extra options are applied.
type command struct {
	// path is the subcommand, e.g. database init. It selects the extra
	// options and leads the argument vector.
	path []string
	args []string
	// ignoring lists extra options dropped because the facade manages them.
	ignoring       []string
	stdin          []byte
	suppressStdout bool
	env            []string
	dir            string
}

// invoke runs cmd with the user's extra options for its path appended.
// Unless disabled, the CLI version is verified first.
func (c *CLI) invoke(ctx context.Context, cmd command) (string, error) {
	executable, err := c.executable(ctx)
	if err != nil {
		return "", err
	}

	if !c.skipVersionCheck {
		if _, err := c.Version(ctx); err != nil {
			return "", err
		}
	}

	extra, dropped, err := c.extra.ResolveIgnoring(cmd.path, cmd.ignoring...)
	if err != nil {
		return "", err
	}

	for _, option := range dropped {
		c.log.Warn("Ignoring extra option managed by the invocation layer",
			"option", option,
			"command", strings.Join(cmd.path, " "),
		)
	}

	return c.runner.Run(ctx, executable, slices.Concat(cmd.path, cmd.args, extra), &subprocess.Options{
		Stdin:          cmd.stdin,
		SuppressStdout: cmd.suppressStdout,
		Dir:            cmd.dir,
		Env:            slices.Concat(c.env, cmd.env),
	})
}

// supports is a shorthand used while building argument lists.
func (c *CLI) supports(ctx context.Context, tok capability.Token) (bool, error) {
	return c.gate.Supports(ctx, tok)
}

// SupportsFeature implements Scanner.
func (c *CLI) SupportsFeature(ctx context.Context, tok capability.Token) (bool, error) {
	return c.gate.Supports(ctx, tok)
}

// featureEnabled consults the runtime feature oracle.
func (c *CLI) featureEnabled(ctx context.Context, feature config.Feature) (bool, error) {
	return c.features.IsEnabled(ctx, feature)
}

// wrap upgrades known user-correctable failures into configuration errors.
func wrap(err error) error {
	return errors.WrapKnown(err)
}
