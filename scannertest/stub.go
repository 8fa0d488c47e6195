// Package scannertest provides a configurable test double for
// scannercli.Scanner.
//
// Each operation delegates to the matching function field. Operations whose
// field is nil fail with scannercli.ErrNotImplemented, so a test states
// exactly which CLI interactions it expects:
//
//	stub := &scannertest.Stub{
//	    ResolveExtractorFunc: func(ctx context.Context, language string) (string, error) {
//	        return "/ext/" + language, nil
//	    },
//	}
package scannertest

import (
	"context"
	"sync"

	scannercli "github.com/wagiedev/scanner-cli-go"
)

// Compile-time verification that Stub implements scannercli.Scanner.
var _ scannercli.Scanner = (*Stub)(nil)

// Stub is a scannercli.Scanner whose operations are supplied per test.
// It is safe for concurrent use once configured.
type Stub struct {
	VersionFunc                   func(ctx context.Context) (*scannercli.VersionInfo, error)
	PrintVersionFunc              func(ctx context.Context) error
	SupportsFeatureFunc           func(ctx context.Context, capability scannercli.Capability) (bool, error)
	DatabaseInitClusterFunc       func(ctx context.Context, analysis *scannercli.Analysis, sourceRoot, processName string) error
	RunAutobuildFunc              func(ctx context.Context, analysis *scannercli.Analysis, language string) error
	ExtractScannedLanguageFunc    func(ctx context.Context, analysis *scannercli.Analysis, language string) error
	ExtractUsingBuildModeFunc     func(ctx context.Context, analysis *scannercli.Analysis, language, workingDir string) error
	FinalizeDatabaseFunc          func(ctx context.Context, databasePath, threadsFlag, memoryFlag string, enableDebugLogging bool) error
	DatabaseRunQueriesFunc        func(ctx context.Context, databasePath string, flags []string) error
	DatabaseInterpretResultsFunc  func(ctx context.Context, req *scannercli.InterpretRequest) (string, error)
	DatabasePrintBaselineFunc     func(ctx context.Context, databasePath string) (string, error)
	DatabaseBundleFunc            func(ctx context.Context, databasePath, outputFilePath, databaseName string) error
	DatabaseExportDiagnosticsFunc func(ctx context.Context, analysis *scannercli.Analysis, databasePath, sarifFile, automationDetailsID string) error
	DatabaseCleanupFunc           func(ctx context.Context, databasePath, cleanupLevel string) error
	DiagnosticsExportFunc         func(ctx context.Context, analysis *scannercli.Analysis, sarifFile, automationDetailsID string) error
	ResolveLanguagesFunc          func(ctx context.Context) (map[string][]string, error)
	BetterResolveLanguagesFunc    func(ctx context.Context, filterToLanguagesWithQueries bool) (*scannercli.BetterResolveLanguagesOutput, error)
	ResolveQueriesFunc            func(ctx context.Context, queries []string, extraSearchPath string) (*scannercli.ResolveQueriesOutput, error)
	ResolveBuildEnvironmentFunc   func(ctx context.Context, workingDir, language string) (*scannercli.BuildEnvironment, error)
	ResolveExtractorFunc          func(ctx context.Context, language string) (string, error)
	PackDownloadFunc              func(ctx context.Context, packs []string, qlconfigFile string) (*scannercli.PackDownloadOutput, error)
	MergeResultsFunc              func(ctx context.Context, sarifFiles []string, outputFile string, opts scannercli.MergeOptions) error

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the operations invoked so far, in order.
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

func (s *Stub) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, name)
}

// Version implements scannercli.Scanner.
func (s *Stub) Version(ctx context.Context) (*scannercli.VersionInfo, error) {
	s.record("Version")

	if s.VersionFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.VersionFunc(ctx)
}

// PrintVersion implements scannercli.Scanner.
func (s *Stub) PrintVersion(ctx context.Context) error {
	s.record("PrintVersion")

	if s.PrintVersionFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.PrintVersionFunc(ctx)
}

// SupportsFeature implements scannercli.Scanner.
func (s *Stub) SupportsFeature(ctx context.Context, capability scannercli.Capability) (bool, error) {
	s.record("SupportsFeature")

	if s.SupportsFeatureFunc == nil {
		return false, scannercli.ErrNotImplemented
	}

	return s.SupportsFeatureFunc(ctx, capability)
}

// DatabaseInitCluster implements scannercli.Scanner.
func (s *Stub) DatabaseInitCluster(
	ctx context.Context,
	analysis *scannercli.Analysis,
	sourceRoot, processName string,
) error {
	s.record("DatabaseInitCluster")

	if s.DatabaseInitClusterFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DatabaseInitClusterFunc(ctx, analysis, sourceRoot, processName)
}

// RunAutobuild implements scannercli.Scanner.
func (s *Stub) RunAutobuild(ctx context.Context, analysis *scannercli.Analysis, language string) error {
	s.record("RunAutobuild")

	if s.RunAutobuildFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.RunAutobuildFunc(ctx, analysis, language)
}

// ExtractScannedLanguage implements scannercli.Scanner.
func (s *Stub) ExtractScannedLanguage(ctx context.Context, analysis *scannercli.Analysis, language string) error {
	s.record("ExtractScannedLanguage")

	if s.ExtractScannedLanguageFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.ExtractScannedLanguageFunc(ctx, analysis, language)
}

// ExtractUsingBuildMode implements scannercli.Scanner.
func (s *Stub) ExtractUsingBuildMode(
	ctx context.Context,
	analysis *scannercli.Analysis,
	language, workingDir string,
) error {
	s.record("ExtractUsingBuildMode")

	if s.ExtractUsingBuildModeFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.ExtractUsingBuildModeFunc(ctx, analysis, language, workingDir)
}

// FinalizeDatabase implements scannercli.Scanner.
func (s *Stub) FinalizeDatabase(
	ctx context.Context,
	databasePath, threadsFlag, memoryFlag string,
	enableDebugLogging bool,
) error {
	s.record("FinalizeDatabase")

	if s.FinalizeDatabaseFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.FinalizeDatabaseFunc(ctx, databasePath, threadsFlag, memoryFlag, enableDebugLogging)
}

// DatabaseRunQueries implements scannercli.Scanner.
func (s *Stub) DatabaseRunQueries(ctx context.Context, databasePath string, flags []string) error {
	s.record("DatabaseRunQueries")

	if s.DatabaseRunQueriesFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DatabaseRunQueriesFunc(ctx, databasePath, flags)
}

// DatabaseInterpretResults implements scannercli.Scanner.
func (s *Stub) DatabaseInterpretResults(ctx context.Context, req *scannercli.InterpretRequest) (string, error) {
	s.record("DatabaseInterpretResults")

	if s.DatabaseInterpretResultsFunc == nil {
		return "", scannercli.ErrNotImplemented
	}

	return s.DatabaseInterpretResultsFunc(ctx, req)
}

// DatabasePrintBaseline implements scannercli.Scanner.
func (s *Stub) DatabasePrintBaseline(ctx context.Context, databasePath string) (string, error) {
	s.record("DatabasePrintBaseline")

	if s.DatabasePrintBaselineFunc == nil {
		return "", scannercli.ErrNotImplemented
	}

	return s.DatabasePrintBaselineFunc(ctx, databasePath)
}

// DatabaseBundle implements scannercli.Scanner.
func (s *Stub) DatabaseBundle(ctx context.Context, databasePath, outputFilePath, databaseName string) error {
	s.record("DatabaseBundle")

	if s.DatabaseBundleFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DatabaseBundleFunc(ctx, databasePath, outputFilePath, databaseName)
}

// DatabaseExportDiagnostics implements scannercli.Scanner.
func (s *Stub) DatabaseExportDiagnostics(
	ctx context.Context,
	analysis *scannercli.Analysis,
	databasePath, sarifFile, automationDetailsID string,
) error {
	s.record("DatabaseExportDiagnostics")

	if s.DatabaseExportDiagnosticsFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DatabaseExportDiagnosticsFunc(ctx, analysis, databasePath, sarifFile, automationDetailsID)
}

// DatabaseCleanup implements scannercli.Scanner.
func (s *Stub) DatabaseCleanup(ctx context.Context, databasePath, cleanupLevel string) error {
	s.record("DatabaseCleanup")

	if s.DatabaseCleanupFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DatabaseCleanupFunc(ctx, databasePath, cleanupLevel)
}

// DiagnosticsExport implements scannercli.Scanner.
func (s *Stub) DiagnosticsExport(
	ctx context.Context,
	analysis *scannercli.Analysis,
	sarifFile, automationDetailsID string,
) error {
	s.record("DiagnosticsExport")

	if s.DiagnosticsExportFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.DiagnosticsExportFunc(ctx, analysis, sarifFile, automationDetailsID)
}

// ResolveLanguages implements scannercli.Scanner.
func (s *Stub) ResolveLanguages(ctx context.Context) (map[string][]string, error) {
	s.record("ResolveLanguages")

	if s.ResolveLanguagesFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.ResolveLanguagesFunc(ctx)
}

// BetterResolveLanguages implements scannercli.Scanner.
func (s *Stub) BetterResolveLanguages(
	ctx context.Context,
	filterToLanguagesWithQueries bool,
) (*scannercli.BetterResolveLanguagesOutput, error) {
	s.record("BetterResolveLanguages")

	if s.BetterResolveLanguagesFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.BetterResolveLanguagesFunc(ctx, filterToLanguagesWithQueries)
}

// ResolveQueries implements scannercli.Scanner.
func (s *Stub) ResolveQueries(
	ctx context.Context,
	queries []string,
	extraSearchPath string,
) (*scannercli.ResolveQueriesOutput, error) {
	s.record("ResolveQueries")

	if s.ResolveQueriesFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.ResolveQueriesFunc(ctx, queries, extraSearchPath)
}

// ResolveBuildEnvironment implements scannercli.Scanner.
func (s *Stub) ResolveBuildEnvironment(
	ctx context.Context,
	workingDir, language string,
) (*scannercli.BuildEnvironment, error) {
	s.record("ResolveBuildEnvironment")

	if s.ResolveBuildEnvironmentFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.ResolveBuildEnvironmentFunc(ctx, workingDir, language)
}

// ResolveExtractor implements scannercli.Scanner.
func (s *Stub) ResolveExtractor(ctx context.Context, language string) (string, error) {
	s.record("ResolveExtractor")

	if s.ResolveExtractorFunc == nil {
		return "", scannercli.ErrNotImplemented
	}

	return s.ResolveExtractorFunc(ctx, language)
}

// PackDownload implements scannercli.Scanner.
func (s *Stub) PackDownload(
	ctx context.Context,
	packs []string,
	qlconfigFile string,
) (*scannercli.PackDownloadOutput, error) {
	s.record("PackDownload")

	if s.PackDownloadFunc == nil {
		return nil, scannercli.ErrNotImplemented
	}

	return s.PackDownloadFunc(ctx, packs, qlconfigFile)
}

// MergeResults implements scannercli.Scanner.
func (s *Stub) MergeResults(
	ctx context.Context,
	sarifFiles []string,
	outputFile string,
	opts scannercli.MergeOptions,
) error {
	s.record("MergeResults")

	if s.MergeResultsFunc == nil {
		return scannercli.ErrNotImplemented
	}

	return s.MergeResultsFunc(ctx, sarifFiles, outputFile, opts)
}
