package scanner

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/subprocess"
)

// debugVerbosity raises extractor logging in debug mode.
const debugVerbosity = "--verbosity=progress++"

// Flags the facade sets itself on database init. Extra options repeating them
// are dropped.
var initManagedOptions = []string{"--overwrite", "--force-overwrite"}

// initRules are the capability-dependent database init flags, in order.
var initRules = []capability.Rule{
	{Token: capability.LanguageBaselineConfig, Flag: "--calculate-language-specific-baselines"},
	{Token: capability.SublanguageFileCoverage, Flag: "--sublanguage-file-coverage", OnPlatform: true},
	{Token: capability.BuildModeOption, Flag: "--build-mode=${buildMode}"},
	{Token: capability.ExtractorIncludeAliases, Flag: "--extractor-include-aliases"},
	{Token: capability.ForceOverwrite, Flag: "--force-overwrite", Otherwise: "--overwrite"},
}

// DatabaseInitCluster implements Scanner.
func (c *CLI) DatabaseInitCluster(
	ctx context.Context,
	analysis *config.Analysis,
	sourceRoot string,
	processName string,
) error {
	args := []string{
		"--db-cluster",
		analysis.DBLocation,
		"--source-root=" + sourceRoot,
		"--language=" + strings.Join(analysis.Languages, ","),
	}

	if processName != "" {
		args = append(args, "--begin-tracing", "--trace-process-name="+processName)
	}

	rules, err := c.enabledInitRules(ctx)
	if err != nil {
		return err
	}

	flags, err := c.gate.Apply(ctx, rules, map[string]string{
		"buildMode": string(analysis.BuildMode),
	})
	if err != nil {
		return err
	}

	args = append(args, flags...)

	if analysis.QLConfigFile != "" {
		args = append(args, "--qlconfig-file="+analysis.QLConfigFile)
	}

	_, err = c.invoke(ctx, command{
		path:     []string{"database", "init"},
		args:     args,
		ignoring: initManagedOptions,
	})

	return wrap(err)
}

// enabledInitRules drops the sublanguage coverage rule unless its runtime
// feature is enabled. The flag then needs both the feature and a qualifying
// CLI.
func (c *CLI) enabledInitRules(ctx context.Context) ([]capability.Rule, error) {
	enabled, err := c.featureEnabled(ctx, config.FeatureSublanguageFileCoverage)
	if err != nil {
		return nil, err
	}

	if enabled {
		return initRules, nil
	}

	return slices.DeleteFunc(slices.Clone(initRules), func(r capability.Rule) bool {
		return r.Token == capability.SublanguageFileCoverage
	}), nil
}

// RunAutobuild implements Scanner.
func (c *CLI) RunAutobuild(ctx context.Context, analysis *config.Analysis, language string) error {
	extractor, err := c.ResolveExtractor(ctx, language)
	if err != nil {
		return err
	}

	script := "autobuild.sh"
	if runtime.GOOS == "windows" {
		script = "autobuild.cmd"
	}

	env := []string{"JAVA_TOOL_OPTIONS=" + javaToolOptions()}
	if analysis.DebugMode {
		env = append(env, "SCANNER_VERBOSITY="+cmp.Or(os.Getenv("SCANNER_VERBOSITY"), "progress++"))
	}

	executable := filepath.Join(extractor, "tools", script)

	_, err = c.runner.Run(ctx, executable, nil, &subprocess.Options{Env: slices.Concat(c.env, env)})

	return wrap(err)
}

// ExtractScannedLanguage implements Scanner.
func (c *CLI) ExtractScannedLanguage(ctx context.Context, analysis *config.Analysis, language string) error {
	_, err := c.invoke(ctx, command{
		path: []string{"database", "trace-command"},
		args: []string{"--index-traceless-dbs", analysis.DatabasePath(language)},
	})

	return wrap(err)
}

// ExtractUsingBuildMode implements Scanner.
func (c *CLI) ExtractUsingBuildMode(
	ctx context.Context,
	analysis *config.Analysis,
	language string,
	workingDir string,
) error {
	var env []string
	if analysis.BuildMode == config.BuildModeAutobuild {
		env = append(env, "JAVA_TOOL_OPTIONS="+javaToolOptions())
	}

	_, err := c.invoke(ctx, command{
		path: []string{"database", "trace-command"},
		args: []string{"--use-build-mode", "--working-dir", workingDir, analysis.DatabasePath(language)},
		env:  env,
	})

	return wrap(err)
}

// FinalizeDatabase implements Scanner.
func (c *CLI) FinalizeDatabase(
	ctx context.Context,
	databasePath string,
	threadsFlag string,
	memoryFlag string,
	enableDebugLogging bool,
) error {
	args := slices.DeleteFunc([]string{"--finalize-dataset", threadsFlag, memoryFlag}, isEmpty)
	if enableDebugLogging {
		args = append(args, debugVerbosity)
	}

	args = append(args, databasePath)

	_, err := c.invoke(ctx, command{
		path: []string{"database", "finalize"},
		args: args,
	})

	return wrap(err)
}

// DatabaseRunQueries implements Scanner.
func (c *CLI) DatabaseRunQueries(ctx context.Context, databasePath string, flags []string) error {
	args := slices.Concat(flags, []string{databasePath, "--min-disk-free=1024", "-v"})

	_, err := c.invoke(ctx, command{
		path:     []string{"database", "run-queries"},
		args:     args,
		ignoring: []string{"--expect-discarded-cache"},
	})

	return wrap(err)
}

// DatabaseInterpretResults implements Scanner.
func (c *CLI) DatabaseInterpretResults(ctx context.Context, req *InterpretRequest) (string, error) {
	redirect, err := c.redirectSarif(ctx, req.Analysis, req.SarifFile)
	if err != nil {
		return "", err
	}
	defer redirect.Discard()

	args := []string{
		req.ThreadsFlag,
		"--format=sarif-latest",
		req.VerbosityFlag,
		"--output=" + redirect.OutputPath(),
		req.AddSnippetsFlag,
		"--print-diagnostics-summary",
		"--print-metrics-summary",
		"--sarif-add-baseline-file-info",
		"--sarif-group-rules-by-pack",
	}
	args = slices.DeleteFunc(args, isEmpty)

	if req.AutomationDetailsID != "" {
		args = append(args, "--sarif-category="+req.AutomationDetailsID)
	}

	summaryV2, err := c.needsAnalysisSummaryV2(ctx)
	if err != nil {
		return "", err
	}

	if summaryV2 {
		args = append(args, "--new-analysis-summary")
	}

	diagnostics, err := c.exportDiagnostics(ctx)
	if err != nil {
		return "", err
	}

	if diagnostics {
		args = append(args, "--sarif-include-diagnostics")
	}

	properties, err := c.runPropertyFlags(ctx, req.RunProperties)
	if err != nil {
		return "", err
	}

	args = append(args, properties...)
	args = append(args, req.DatabasePath)
	args = append(args, req.QuerySuitePaths...)

	stdout, err := c.invoke(ctx, command{
		path:           []string{"database", "interpret-results"},
		args:           args,
		suppressStdout: true,
	})
	if err != nil {
		return "", wrap(err)
	}

	if err := redirect.Finish(); err != nil {
		return "", err
	}

	return stdout, nil
}

// DatabasePrintBaseline implements Scanner.
func (c *CLI) DatabasePrintBaseline(ctx context.Context, databasePath string) (string, error) {
	stdout, err := c.invoke(ctx, command{
		path: []string{"database", "print-baseline"},
		args: []string{databasePath},
	})
	if err != nil {
		return "", wrap(err)
	}

	return stdout, nil
}

// DatabaseBundle implements Scanner.
func (c *CLI) DatabaseBundle(ctx context.Context, databasePath, outputFilePath, databaseName string) error {
	_, err := c.invoke(ctx, command{
		path: []string{"database", "bundle"},
		args: []string{databasePath, "--output=" + outputFilePath, "--name=" + databaseName},
	})

	return wrap(err)
}

// DatabaseExportDiagnostics implements Scanner.
func (c *CLI) DatabaseExportDiagnostics(
	ctx context.Context,
	analysis *config.Analysis,
	databasePath string,
	sarifFile string,
	automationDetailsID string,
) error {
	redirect, err := c.redirectSarif(ctx, analysis, sarifFile)
	if err != nil {
		return err
	}
	defer redirect.Discard()

	args := []string{
		databasePath,
		"--db-cluster",
		"--format=sarif-latest",
		"--output=" + redirect.OutputPath(),
		"--sarif-include-diagnostics",
		"-vvv",
	}

	if automationDetailsID != "" {
		args = append(args, "--sarif-category="+automationDetailsID)
	}

	if _, err := c.invoke(ctx, command{path: []string{"database", "export-diagnostics"}, args: args}); err != nil {
		return wrap(err)
	}

	return redirect.Finish()
}

// DatabaseCleanup implements Scanner.
func (c *CLI) DatabaseCleanup(ctx context.Context, databasePath, cleanupLevel string) error {
	_, err := c.invoke(ctx, command{
		path: []string{"database", "cleanup"},
		args: []string{databasePath, "--cache-cleanup=" + cleanupLevel},
	})

	return wrap(err)
}

// runPropertyFlags renders SARIF run properties as flags, sorted by key.
func (c *CLI) runPropertyFlags(ctx context.Context, properties map[string]any) ([]string, error) {
	if len(properties) == 0 {
		return nil, nil
	}

	supported, err := c.supports(ctx, capability.SarifRunProperty)
	if err != nil || !supported {
		return nil, err
	}

	flags := make([]string, 0, len(properties))

	for _, key := range slices.Sorted(maps.Keys(properties)) {
		value, err := json.Marshal(properties[key])
		if err != nil {
			return nil, fmt.Errorf("encode SARIF run property %q: %w", key, err)
		}

		flags = append(flags, fmt.Sprintf("--sarif-run-property=%s=%s", key, value))
	}

	return flags, nil
}

// needsAnalysisSummaryV2 reports whether the new summary must be requested
// explicitly: enabled at runtime and not already the CLI default.
func (c *CLI) needsAnalysisSummaryV2(ctx context.Context) (bool, error) {
	enabled, err := c.featureEnabled(ctx, config.FeatureAnalysisSummaryV2)
	if err != nil || !enabled {
		return false, err
	}

	isDefault, err := c.supports(ctx, capability.AnalysisSummaryV2Default)
	if err != nil {
		return false, err
	}

	return !isDefault, nil
}

// exportDiagnostics reports whether diagnostics are embedded in SARIF output.
func (c *CLI) exportDiagnostics(ctx context.Context) (bool, error) {
	supported, err := c.supports(ctx, capability.ExportDiagnostics)
	if err != nil || !supported {
		return false, err
	}

	return c.featureEnabled(ctx, config.FeatureExportDiagnostics)
}

// javaToolOptions extends JAVA_TOOL_OPTIONS to disable HTTP connection reuse.
func javaToolOptions() string {
	const extra = "-Dhttp.keepAlive=false -Dmaven.wagon.http.pool=false"

	if existing := os.Getenv("JAVA_TOOL_OPTIONS"); existing != "" {
		return existing + " " + extra
	}

	return extra
}

func isEmpty(s string) bool {
	return s == ""
}
