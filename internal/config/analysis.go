package config

import "path/filepath"

// BuildMode selects how compiled languages are extracted.
type BuildMode string

// Supported build modes.
const (
	BuildModeNone      BuildMode = "none"
	BuildModeAutobuild BuildMode = "autobuild"
	BuildModeManual    BuildMode = "manual"
)

// Analysis describes what the pipeline analyzes and where databases live.
// It is produced by the pipeline's own configuration step.
type Analysis struct {
	// Languages to create databases for.
	Languages []string

	// BuildMode applies to every language. Empty means the CLI default.
	BuildMode BuildMode

	// DBLocation is the database cluster directory.
	DBLocation string

	// TempDir is the pipeline's scratch directory. When set, intermediate
	// SARIF files for this analysis are staged here.
	TempDir string

	// DebugMode keeps intermediate artifacts and enables verbose logs.
	DebugMode bool

	// UploadEnabled reports whether results are uploaded to the code scanning
	// endpoint, the consumer that rejects invalid notifications.
	UploadEnabled bool

	// QLConfigFile is the generated query pack configuration file, if any.
	QLConfigFile string
}

// DatabasePath returns the database directory for language.
func (a *Analysis) DatabasePath(language string) string {
	return filepath.Join(a.DBLocation, language)
}
