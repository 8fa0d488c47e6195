package scanner

import (
	"encoding/json"
	"strings"

	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// BetterResolveLanguagesOutput is the betterjson form of resolve languages.
type BetterResolveLanguagesOutput struct {
	// Aliases maps a language alias to its canonical language.
	Aliases    map[string]string          `json:"aliases,omitempty"`
	Extractors map[string][]ExtractorInfo `json:"extractors"`
}

// ExtractorInfo describes one extractor for a language.
type ExtractorInfo struct {
	ExtractorRoot    string         `json:"extractor_root"`
	ExtractorOptions map[string]any `json:"extractor_options,omitempty"`
}

// ResolveQueriesOutput classifies resolved query files by declared language.
type ResolveQueriesOutput struct {
	ByLanguage                map[string]map[string]struct{} `json:"byLanguage"`
	NoDeclaredLanguage        map[string]struct{}            `json:"noDeclaredLanguage"`
	MultipleDeclaredLanguages map[string]struct{}            `json:"multipleDeclaredLanguages"`
}

// BuildEnvironment is the output of resolve build-environment.
type BuildEnvironment struct {
	// Configuration maps a language to its build settings.
	Configuration map[string]map[string]any `json:"configuration,omitempty"`
}

// PackDownloadOutput lists the packs made available by pack download.
type PackDownloadOutput struct {
	Packs []PackDownloadItem `json:"packs"`
}

// PackDownloadItem is one downloaded pack.
type PackDownloadItem struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	PackDir       string `json:"packDir"`
	InstallResult string `json:"installResult"`
}

// InterpretRequest configures database interpret-results.
type InterpretRequest struct {
	Analysis        *config.Analysis
	DatabasePath    string
	QuerySuitePaths []string
	// SarifFile is where the SARIF log is written.
	SarifFile           string
	AddSnippetsFlag     string
	ThreadsFlag         string
	VerbosityFlag       string
	AutomationDetailsID string
	// RunProperties are recorded on the SARIF run when supported.
	RunProperties map[string]any
}

// MergeOptions configures MergeResults.
type MergeOptions struct {
	// MergeRunsFromEqualCategory merges runs sharing a category when the CLI
	// supports it.
	MergeRunsFromEqualCategory bool
}

// parseJSON decodes a command's stdout into T.
func parseJSON[T any](path []string, stdout string) (T, error) {
	var out T

	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		return out, &errors.MalformedOutputError{
			Command: strings.Join(path, " "),
			RawData: stdout,
			Err:     err,
		}
	}

	return out, nil
}
