package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

const (
	// BinaryName is the analysis CLI executable name searched for in PATH.
	BinaryName = "scanner"

	// PathEnvVar overrides discovery with an explicit executable path.
	PathEnvVar = "SCANNER_CLI_PATH"
)

// Config holds configuration for CLI discovery.
type Config struct {
	// CliPath is an explicit CLI path that skips PATH search.
	// If empty, discovery will search PATH and common locations.
	CliPath string

	// Logger is an optional logger for discovery operations.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the analysis CLI binary.
type Discoverer interface {
	// Discover returns the path to the analysis CLI binary or an error.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new CLI discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the analysis CLI binary.
func (d *discoverer) Discover(_ context.Context) (string, error) {
	d.log.Debug("Discovering analysis CLI binary")

	explicit := d.cfg.CliPath
	if explicit == "" {
		explicit = os.Getenv(PathEnvVar)
	}

	// If explicit path provided, use it and only it
	if explicit != "" {
		d.log.Debug("Using explicit CLI path", "cli_path", explicit)

		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}

		return "", &errors.NotFoundError{SearchedPaths: []string{explicit}}
	}

	searchedPaths := make([]string, 0, 4)

	if path, err := exec.LookPath(BinaryName); err == nil {
		d.log.Debug("Found analysis CLI in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		"/usr/local/bin/" + BinaryName,
		filepath.Join("/opt", BinaryName, BinaryName),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin", BinaryName))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found analysis CLI at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("Analysis CLI not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.NotFoundError{SearchedPaths: searchedPaths}
}

// Static is a Discoverer returning a fixed path, for callers whose
// installation step already produced the executable.
type Static string

// Discover implements Discoverer.
func (s Static) Discover(context.Context) (string, error) {
	return string(s), nil
}
