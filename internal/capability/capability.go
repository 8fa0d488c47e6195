// Package capability decides which analysis CLI behaviors are available for
// the resolved CLI version, its declared feature flags, and the platform the
// pipeline runs on.
package capability

import (
	"context"
	"fmt"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// Token names a unit of behavior gated by the analysis CLI version. The token
// string doubles as the feature flag key reported by the version query.
type Token string

// Registered capability tokens.
const (
	LanguageBaselineConfig    Token = "languageBaselineConfig"
	BuildModeOption           Token = "buildModeOption"
	ExtractorIncludeAliases   Token = "extractorIncludeAliases"
	FixedInvalidNotifications Token = "fixedInvalidNotifications"
	ExportDiagnostics         Token = "exportDiagnostics"
	SublanguageFileCoverage   Token = "sublanguageFileCoverage"
	SarifRunProperty          Token = "sarifRunProperty"

	ForceOverwrite                  Token = "forceOverwrite"
	AnalysisSummaryV2Default        Token = "analysisSummaryV2Default"
	SarifMergeRunsFromEqualCategory Token = "sarifMergeRunsFromEqualCategory"
)

// featureOnly marks a token that is only ever enabled by an explicit feature
// flag; it has no version fallback.
const featureOnly = ""

// minimumVersions maps each registered token to the release it must strictly
// exceed. A version equal to the entry does not qualify.
var minimumVersions = map[Token]string{
	LanguageBaselineConfig:    "2.11.6",
	BuildModeOption:           "2.14.6",
	ExtractorIncludeAliases:   "2.14.4",
	FixedInvalidNotifications: "2.12.6",
	ExportDiagnostics:         "2.12.3",
	SublanguageFileCoverage:   "2.15.1",
	SarifRunProperty:          "2.12.0",

	ForceOverwrite:                  featureOnly,
	AnalysisSummaryV2Default:        featureOnly,
	SarifMergeRunsFromEqualCategory: featureOnly,
}

// platformMinimums maps tokens that additionally depend on the enclosing
// platform to the enterprise server release they must strictly exceed.
var platformMinimums = map[Token]string{
	SublanguageFileCoverage: "3.11",
}

// Tokens returns every registered token in a stable order.
func Tokens() []Token {
	return []Token{
		LanguageBaselineConfig,
		BuildModeOption,
		ExtractorIncludeAliases,
		FixedInvalidNotifications,
		ExportDiagnostics,
		SublanguageFileCoverage,
		SarifRunProperty,
		ForceOverwrite,
		AnalysisSummaryV2Default,
		SarifMergeRunsFromEqualCategory,
	}
}

// VersionSource supplies the analysis CLI version information.
type VersionSource interface {
	Get(ctx context.Context) (*version.Info, error)
}

// Gate answers capability questions against a VersionSource.
type Gate struct {
	versions VersionSource
	platform Platform
}

// NewGate creates a Gate for the given version source and platform.
func NewGate(versions VersionSource, platform Platform) *Gate {
	return &Gate{versions: versions, platform: platform}
}

// Platform returns the platform the gate evaluates environment-conditioned
// tokens against.
func (g *Gate) Platform() Platform {
	return g.platform
}

// Supports reports whether the analysis CLI supports tok.
//
// An explicit feature flag wins. Otherwise the CLI version must strictly
// exceed the token's registered minimum. Feature-only tokens without a
// declared flag are unsupported. Tokens with neither a flag nor a table entry
// fail with ErrUnknownCapability.
func (g *Gate) Supports(ctx context.Context, tok Token) (bool, error) {
	info, err := g.versions.Get(ctx)
	if err != nil {
		return false, err
	}

	return Resolve(info, tok)
}

// SupportsOnPlatform reports whether tok is supported by both the analysis
// CLI and the gate's platform.
func (g *Gate) SupportsOnPlatform(ctx context.Context, tok Token) (bool, error) {
	supported, err := g.Supports(ctx, tok)
	if err != nil || !supported {
		return false, err
	}

	minimum, ok := platformMinimums[tok]
	if !ok {
		return true, nil
	}

	return g.platform.Satisfies(minimum), nil
}

// Resolve applies the resolution algorithm to already-resolved version info.
func Resolve(info *version.Info, tok Token) (bool, error) {
	if enabled, declared := info.Feature(string(tok)); declared {
		return enabled, nil
	}

	minimum, registered := minimumVersions[tok]
	if !registered {
		return false, fmt.Errorf("%w: %q", errors.ErrUnknownCapability, tok)
	}

	if minimum == featureOnly {
		return false, nil
	}

	return version.Above(info.Version, minimum), nil
}

// MinimumVersion returns the registered minimum for tok, or "" for
// feature-only tokens. The bool is false for unregistered tokens.
func MinimumVersion(tok Token) (string, bool) {
	minimum, ok := minimumVersions[tok]

	return minimum, ok
}
