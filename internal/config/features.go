package config

import "context"

// Feature names a runtime toggle, independent of the analysis CLI version.
type Feature string

// Known runtime features. FeatureSublanguageFileCoverage additionally gates
// the sublanguage coverage flag on database init.
const (
	FeatureExportDiagnostics       Feature = "export_diagnostics_enabled"
	FeatureSublanguageFileCoverage Feature = "sublanguage_file_coverage_enabled"
	FeatureAnalysisSummaryV2       Feature = "analysis_summary_v2_enabled"
)

// FeatureEnablement answers whether a runtime feature is enabled.
type FeatureEnablement interface {
	IsEnabled(ctx context.Context, feature Feature) (bool, error)
}

// StaticFeatures is a FeatureEnablement backed by a fixed map. Missing
// features are disabled.
type StaticFeatures map[Feature]bool

// IsEnabled implements FeatureEnablement.
func (s StaticFeatures) IsEnabled(_ context.Context, feature Feature) (bool, error) {
	return s[feature], nil
}
