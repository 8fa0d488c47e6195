package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// TestDiscoverer_NotFound tests that an invalid CLI path returns NotFoundError.
func TestDiscoverer_NotFound(t *testing.T) {
	discoverer := NewDiscoverer(&Config{
		CliPath: "/nonexistent/path/to/scanner",
		Logger:  slog.Default(),
	})

	_, err := discoverer.Discover(context.Background())

	require.Error(t, err)
	require.IsType(t, &errors.NotFoundError{}, err)
}

// TestDiscoverer_ExplicitPath tests discovery with an explicit path.
func TestDiscoverer_ExplicitPath(t *testing.T) {
	fakeCLI := filepath.Join(t.TempDir(), "scanner")

	err := os.WriteFile(fakeCLI, []byte("#!/bin/sh\necho '{\"version\":\"2.15.0\"}'"), 0o755)
	require.NoError(t, err)

	discoverer := NewDiscoverer(&Config{
		CliPath: fakeCLI,
		Logger:  slog.Default(),
	})

	path, err := discoverer.Discover(context.Background())

	require.NoError(t, err)
	require.Equal(t, fakeCLI, path)
}

// TestDiscoverer_EnvPath tests discovery through SCANNER_CLI_PATH.
func TestDiscoverer_EnvPath(t *testing.T) {
	fakeCLI := filepath.Join(t.TempDir(), "scanner")
	require.NoError(t, os.WriteFile(fakeCLI, []byte("#!/bin/sh\n"), 0o755))

	t.Setenv(PathEnvVar, fakeCLI)

	path, err := NewDiscoverer(nil).Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, fakeCLI, path)
}

// TestDiscoverer_PATH tests discovery through the PATH search.
func TestDiscoverer_PATH(t *testing.T) {
	dir := t.TempDir()
	fakeCLI := filepath.Join(dir, BinaryName)
	require.NoError(t, os.WriteFile(fakeCLI, []byte("#!/bin/sh\n"), 0o755))

	t.Setenv(PathEnvVar, "")
	t.Setenv("PATH", dir)

	path, err := NewDiscoverer(nil).Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, fakeCLI, path)
}

func TestStatic(t *testing.T) {
	path, err := Static("/tools/scanner").Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/tools/scanner", path)
}

func TestBuildEnvironment(t *testing.T) {
	env := BuildEnvironment(map[string]string{"B": "2", "A": "1"})

	require.Equal(t, []string{
		"SCANNER_INVOCATION_LAYER=go",
		"SCANNER_INVOCATION_LAYER_VERSION=" + LayerVersion,
		"A=1",
		"B=2",
	}, env)
}
