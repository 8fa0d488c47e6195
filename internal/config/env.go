package config

import (
	"os"

	"github.com/wagiedev/scanner-cli-go/internal/overlay"
)

// Environment variables read by the invocation layer.
const (
	EnvExtraOptions     = "SCANNER_ACTION_EXTRA_OPTIONS"
	EnvSkipVersionCheck = "SCANNER_SKIP_VERSION_CHECK"
	EnvTempDir          = "RUNNER_TEMP"
)

// ExtraOptionsFromEnv parses the extra options tree from
// SCANNER_ACTION_EXTRA_OPTIONS. An unset variable yields an empty tree.
func ExtraOptionsFromEnv() (*overlay.Tree, error) {
	return overlay.Parse([]byte(os.Getenv(EnvExtraOptions)))
}

// SkipVersionCheckFromEnv reports whether SCANNER_SKIP_VERSION_CHECK is set.
func SkipVersionCheckFromEnv() bool {
	return os.Getenv(EnvSkipVersionCheck) != ""
}

// TempDirFromEnv returns $RUNNER_TEMP, falling back to the system temporary
// directory.
func TempDirFromEnv() string {
	if dir := os.Getenv(EnvTempDir); dir != "" {
		return dir
	}

	return os.TempDir()
}
