package scannercli

import (
	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/cli"
	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/overlay"
	"github.com/wagiedev/scanner-cli-go/internal/sarif"
	"github.com/wagiedev/scanner-cli-go/internal/scanner"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// ===== Analysis Configuration =====

// Analysis describes what the pipeline analyzes and where databases live.
type Analysis = config.Analysis

// BuildMode selects how compiled languages are extracted.
type BuildMode = config.BuildMode

// Supported build modes.
const (
	BuildModeNone      = config.BuildModeNone
	BuildModeAutobuild = config.BuildModeAutobuild
	BuildModeManual    = config.BuildModeManual
)

// ===== Runtime Features =====

// Feature names a runtime toggle, independent of the CLI version.
type Feature = config.Feature

// Known runtime features.
const (
	FeatureExportDiagnostics       = config.FeatureExportDiagnostics
	FeatureSublanguageFileCoverage = config.FeatureSublanguageFileCoverage
	FeatureAnalysisSummaryV2       = config.FeatureAnalysisSummaryV2
)

// FeatureEnablement answers whether a runtime feature is enabled.
type FeatureEnablement = config.FeatureEnablement

// StaticFeatures is a FeatureEnablement backed by a fixed map.
type StaticFeatures = config.StaticFeatures

// ===== Capabilities =====

// Capability names a unit of behavior gated by the CLI version.
type Capability = capability.Token

// Registered capabilities.
const (
	CapabilityLanguageBaselineConfig          = capability.LanguageBaselineConfig
	CapabilityBuildModeOption                 = capability.BuildModeOption
	CapabilityExtractorIncludeAliases         = capability.ExtractorIncludeAliases
	CapabilityFixedInvalidNotifications       = capability.FixedInvalidNotifications
	CapabilityExportDiagnostics               = capability.ExportDiagnostics
	CapabilitySublanguageFileCoverage         = capability.SublanguageFileCoverage
	CapabilitySarifRunProperty                = capability.SarifRunProperty
	CapabilityForceOverwrite                  = capability.ForceOverwrite
	CapabilityAnalysisSummaryV2Default        = capability.AnalysisSummaryV2Default
	CapabilitySarifMergeRunsFromEqualCategory = capability.SarifMergeRunsFromEqualCategory
)

// Capabilities returns every registered capability in a stable order.
func Capabilities() []Capability {
	return capability.Tokens()
}

// Platform identifies the orchestration platform the pipeline runs on.
type Platform = capability.Platform

// PlatformKind distinguishes hosted and self-hosted platforms.
type PlatformKind = capability.PlatformKind

// Platform kinds.
const (
	PlatformDotcom     = capability.PlatformDotcom
	PlatformEnterprise = capability.PlatformEnterprise
)

// VersionInfo is the CLI's self-reported version and feature flags.
type VersionInfo = version.Info

// VersionResolver memoizes the CLI version query.
type VersionResolver = version.Resolver

// ===== Extra Options =====

// ExtraOptions is the parsed extra options tree.
type ExtraOptions = overlay.Tree

// ParseExtraOptions parses an extra options tree from JSON or YAML.
func ParseExtraOptions(data []byte) (*ExtraOptions, error) {
	return overlay.Parse(data)
}

// ExtraOptionsFromEnv parses SCANNER_ACTION_EXTRA_OPTIONS. An unset variable
// yields an empty tree.
func ExtraOptionsFromEnv() (*ExtraOptions, error) {
	return config.ExtraOptionsFromEnv()
}

// ===== Collaborators =====

// Discoverer locates the analysis CLI binary.
type Discoverer = cli.Discoverer

// SarifPatcher repairs SARIF output written to an intermediate file.
type SarifPatcher = sarif.Patcher

// ===== Operation Types =====

// InterpretRequest configures DatabaseInterpretResults.
type InterpretRequest = scanner.InterpretRequest

// MergeOptions configures MergeResults.
type MergeOptions = scanner.MergeOptions

// BetterResolveLanguagesOutput is the detailed form of resolve languages.
type BetterResolveLanguagesOutput = scanner.BetterResolveLanguagesOutput

// ExtractorInfo describes one extractor for a language.
type ExtractorInfo = scanner.ExtractorInfo

// ResolveQueriesOutput classifies resolved queries by language.
type ResolveQueriesOutput = scanner.ResolveQueriesOutput

// BuildEnvironment is the output of resolve build-environment.
type BuildEnvironment = scanner.BuildEnvironment

// PackDownloadOutput lists the packs made available by pack download.
type PackDownloadOutput = scanner.PackDownloadOutput

// PackDownloadItem is one downloaded pack.
type PackDownloadItem = scanner.PackDownloadItem
