package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtraOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvExtraOptions, `{"*": ["--verbose"], "database": {"init": ["--ram=1024"]}}`)

	tree, err := ExtraOptionsFromEnv()
	require.NoError(t, err)

	args, err := tree.Resolve("database", "init")
	require.NoError(t, err)
	require.Equal(t, []string{"--verbose", "--ram=1024"}, args)
}

func TestExtraOptionsFromEnv_Unset(t *testing.T) {
	t.Setenv(EnvExtraOptions, "")

	tree, err := ExtraOptionsFromEnv()
	require.NoError(t, err)
	require.True(t, tree.Empty())
}

func TestExtraOptionsFromEnv_Invalid(t *testing.T) {
	t.Setenv(EnvExtraOptions, `{"*": "--verbose"}`)

	_, err := ExtraOptionsFromEnv()
	require.Error(t, err)
}

func TestSkipVersionCheckFromEnv(t *testing.T) {
	t.Setenv(EnvSkipVersionCheck, "")
	require.False(t, SkipVersionCheckFromEnv())

	t.Setenv(EnvSkipVersionCheck, "1")
	require.True(t, SkipVersionCheckFromEnv())
}

func TestTempDirFromEnv(t *testing.T) {
	t.Setenv(EnvTempDir, "/runner/temp")
	require.Equal(t, "/runner/temp", TempDirFromEnv())

	t.Setenv(EnvTempDir, "")
	require.Equal(t, os.TempDir(), TempDirFromEnv())
}

func TestAnalysis_DatabasePath(t *testing.T) {
	a := &Analysis{DBLocation: "/tmp/db"}
	require.Equal(t, filepath.Join("/tmp/db", "go"), a.DatabasePath("go"))
}

func TestStaticFeatures(t *testing.T) {
	features := StaticFeatures{FeatureExportDiagnostics: true}

	enabled, err := features.IsEnabled(context.Background(), FeatureExportDiagnostics)
	require.NoError(t, err)
	require.True(t, enabled)

	enabled, err = features.IsEnabled(context.Background(), FeatureAnalysisSummaryV2)
	require.NoError(t, err)
	require.False(t, enabled)
}
