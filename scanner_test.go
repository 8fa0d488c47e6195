package scannercli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFakeCLI(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "scanner")
	script := `#!/bin/sh
if [ "$1" = version ]; then
  printf '{"version":"2.15.2","features":{"forceOverwrite":true}}\n'
  exit 0
fi
printf '{"go":["/ext/go"]}'
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func TestNew_WithOptions(t *testing.T) {
	t.Cleanup(ResetVersionCache)

	extra, err := ParseExtraOptions([]byte(`{"resolve": {"languages": ["--search-path=/opt/packs"]}}`))
	require.NoError(t, err)

	var out bytes.Buffer

	s, err := New(
		WithLogger(NopLogger()),
		WithCliPath(writeFakeCLI(t)),
		WithOutput(&out),
		WithExtraOptions(extra),
		WithTempDir(t.TempDir()),
	)
	require.NoError(t, err)

	ctx := context.Background()

	info, err := s.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, "2.15.2", info.Version)

	supported, err := s.SupportsFeature(ctx, CapabilityForceOverwrite)
	require.NoError(t, err)
	require.True(t, supported)

	languages, err := s.ResolveLanguages(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]string{"go": {"/ext/go"}}, languages)
	require.Contains(t, out.String(), "resolve languages --format=json --search-path=/opt/packs")
}

func TestNew_MalformedExtraOptionsFromEnv(t *testing.T) {
	t.Setenv("SCANNER_ACTION_EXTRA_OPTIONS", `{"*": {"nested": true}}`)

	s, err := New(WithCliPath("/nonexistent/scanner"))
	require.Nil(t, s)

	_, ok := errors.AsType[*ConfigurationError](err)
	require.True(t, ok)
}

func TestSupportsFeature_UnknownCapability(t *testing.T) {
	t.Cleanup(ResetVersionCache)

	s, err := New(WithCliPath(writeFakeCLI(t)), WithExtraOptions(nil), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	_, err = s.SupportsFeature(context.Background(), Capability("teleportation"))
	require.ErrorIs(t, err, ErrUnknownCapability)
}

func TestApplyOptions(t *testing.T) {
	features := StaticFeatures{FeatureExportDiagnostics: true}
	platform := Platform{Kind: PlatformEnterprise, Version: "3.12"}

	options := applyOptions([]Option{
		WithCliPath("/opt/scanner/scanner"),
		WithEnv(map[string]string{"A": "1"}),
		WithPlatform(platform),
		WithFeatures(features),
		WithSkipVersionCheck(true),
		WithTempDir("/tmp/runner"),
	})

	require.Equal(t, "/opt/scanner/scanner", options.CliPath)
	require.Equal(t, map[string]string{"A": "1"}, options.Env)
	require.Equal(t, platform, options.Platform)
	require.Equal(t, features, options.Features)
	require.True(t, options.SkipVersionCheck)
	require.Equal(t, "/tmp/runner", options.TempDir)
}

func TestCapabilities_ListsEveryToken(t *testing.T) {
	require.Contains(t, Capabilities(), CapabilityBuildModeOption)
	require.Contains(t, Capabilities(), CapabilitySarifMergeRunsFromEqualCategory)
}
