//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	scannercli "github.com/wagiedev/scanner-cli-go"
)

// skipIfCLINotInstalled skips the test if the error indicates the CLI is not found.
func skipIfCLINotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*scannercli.NotFoundError](err); ok {
		t.Skip("Analysis CLI not installed")
	}
}

func newScanner(t *testing.T) scannercli.Scanner {
	t.Helper()

	t.Cleanup(scannercli.ResetVersionCache)

	s, err := scannercli.New(
		scannercli.WithLogger(scannercli.NopLogger()),
		scannercli.WithTempDir(t.TempDir()),
	)
	require.NoError(t, err)

	return s
}

func TestVersion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info, err := newScanner(t).Version(ctx)
	skipIfCLINotInstalled(t, err)
	require.NoError(t, err)
	require.NotEmpty(t, info.Version)
}

func TestResolveLanguages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	languages, err := newScanner(t).ResolveLanguages(ctx)
	skipIfCLINotInstalled(t, err)
	require.NoError(t, err)
	require.NotEmpty(t, languages)
}

func TestCapabilities(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s := newScanner(t)

	for _, capability := range scannercli.Capabilities() {
		_, err := s.SupportsFeature(ctx, capability)
		skipIfCLINotInstalled(t, err)
		require.NoError(t, err, "capability %s", capability)
	}
}

func TestDatabaseInitCluster(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	analysis := &scannercli.Analysis{
		Languages:  []string{"go"},
		BuildMode:  scannercli.BuildModeNone,
		DBLocation: t.TempDir(),
	}

	err := newScanner(t).DatabaseInitCluster(ctx, analysis, t.TempDir(), "")
	skipIfCLINotInstalled(t, err)
	require.NoError(t, err)
}
