package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	scannercli "github.com/wagiedev/scanner-cli-go"
)

func writeFakeCLI(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "scanner")
	script := `#!/bin/sh
if [ "$1" = version ]; then
  printf '{"version":"2.14.6","features":{"forceOverwrite":true}}\n'
  exit 0
fi
printf '{"aliases":{"c":"cpp"},"extractors":{"cpp":[{"extractor_root":"/ext/cpp"}],"go":[{"extractor_root":"/ext/go"}]}}'
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	t.Cleanup(scannercli.ResetVersionCache)

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "--cli-path", writeFakeCLI(t), "version")
	require.NoError(t, err)
	require.Equal(t, "version: 2.14.6\nfeature forceOverwrite: true\n", stdout)
}

func TestVersionCmd_JSON(t *testing.T) {
	stdout, _, err := run(t, "--cli-path", writeFakeCLI(t), "version", "--json")
	require.NoError(t, err)
	require.JSONEq(t, `{"version":"2.14.6","features":{"forceOverwrite":true}}`, stdout)
}

func TestLanguagesCmd(t *testing.T) {
	stdout, stderr, err := run(t, "--cli-path", writeFakeCLI(t), "languages")
	require.NoError(t, err)
	require.Equal(t, "cpp: /ext/cpp\ngo: /ext/go\nalias c -> cpp\n", stdout)
	require.Contains(t, stderr, "resolve languages --format=betterjson")
}

func TestCapabilitiesCmd(t *testing.T) {
	stdout, _, err := run(t, "--cli-path", writeFakeCLI(t), "capabilities")
	require.NoError(t, err)
	require.Regexp(t, `buildModeOption\s+false\s+> 2\.14\.6`, stdout)
	require.Regexp(t, `extractorIncludeAliases\s+true\s+> 2\.14\.4`, stdout)
	require.Regexp(t, `forceOverwrite\s+true\s+feature flag`, stdout)
}

func TestExtraOptionsCmd(t *testing.T) {
	stdout, _, err := run(t,
		"--extra-options", `{"*": ["--threads=0"], "database": {"init": ["--ram=4096"]}}`,
		"extra-options", "database", "init",
	)
	require.NoError(t, err)
	require.Equal(t, "--threads=0\n--ram=4096\n", stdout)
}

func TestExtraOptionsCmd_InvalidTree(t *testing.T) {
	_, _, err := run(t, "--extra-options", `{"database": "--oops"}`, "extra-options", "database", "init")

	var cfgErr *scannercli.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestMetricsFlag(t *testing.T) {
	_, stderr, err := run(t, "--cli-path", writeFakeCLI(t), "--metrics", "languages")
	require.NoError(t, err)
	require.Contains(t, stderr, "scanner_cli_invocations_total")
}

func TestMissingCLI(t *testing.T) {
	_, _, err := run(t, "--cli-path", filepath.Join(t.TempDir(), "missing"), "version")

	var notFound *scannercli.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
