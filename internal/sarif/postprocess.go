// Package sarif works around a defect in SARIF files written by older
// analysis CLI releases: tool execution notifications with duplicate
// locations, which the results upload endpoint rejects.
//
// When the workaround is needed the CLI writes to a temporary file, which is
// then patched into the requested location.
package sarif

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// Patcher rewrites the file at src into a corrected file at dst.
type Patcher interface {
	Patch(src, dst string) error
}

// PostProcessor decides where the analysis CLI writes SARIF output.
type PostProcessor struct {
	patcher Patcher
	tempDir string
	log     *slog.Logger
}

// NewPostProcessor creates a PostProcessor that stages redirected output in
// tempDir and repairs it with patcher.
func NewPostProcessor(patcher Patcher, tempDir string, log *slog.Logger) *PostProcessor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &PostProcessor{
		patcher: patcher,
		tempDir: tempDir,
		log:     log.With("component", "sarif_postprocessor"),
	}
}

// In returns a PostProcessor staging redirected output in dir instead.
// An empty dir returns p unchanged.
func (p *PostProcessor) In(dir string) *PostProcessor {
	if dir == "" || dir == p.tempDir {
		return p
	}

	scoped := *p
	scoped.tempDir = dir

	return &scoped
}

// Redirect tracks one output redirection.
type Redirect struct {
	requested string
	actual    string
	patcher   Patcher
	log       *slog.Logger
}

// MaybeRedirect returns the output path to pass to the analysis CLI for a
// caller that wants the result at finalPath. Without the workaround the CLI
// writes to finalPath directly.
func (p *PostProcessor) MaybeRedirect(finalPath string, workaroundNeeded bool) (*Redirect, error) {
	r := &Redirect{
		requested: finalPath,
		actual:    finalPath,
		patcher:   p.patcher,
		log:       p.log,
	}

	if !workaroundNeeded {
		return r, nil
	}

	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temporary directory: %w", err)
	}

	r.actual = filepath.Join(p.tempDir, "intermediate-"+ulid.Make().String()+".sarif")

	p.log.Debug("Redirecting SARIF output for notification workaround",
		"requested", finalPath,
		"intermediate", r.actual,
	)

	return r, nil
}

// OutputPath is the path the analysis CLI should write to.
func (r *Redirect) OutputPath() string {
	return r.actual
}

// Redirected reports whether output goes to an intermediate file.
func (r *Redirect) Redirected() bool {
	return r.actual != r.requested
}

// Finish patches the intermediate file into the requested path and removes
// it. It is a no-op when output was not redirected.
func (r *Redirect) Finish() error {
	if !r.Redirected() {
		return nil
	}

	defer r.Discard()

	if dir := filepath.Dir(r.requested); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := r.patcher.Patch(r.actual, r.requested); err != nil {
		return fmt.Errorf("patch SARIF output: %w", err)
	}

	r.log.Debug("Patched SARIF output", "path", r.requested)

	return nil
}

// Discard removes the intermediate file, if any.
func (r *Redirect) Discard() {
	if !r.Redirected() {
		return
	}

	if err := os.Remove(r.actual); err != nil && !os.IsNotExist(err) {
		r.log.Debug("Failed to remove intermediate SARIF file", "path", r.actual, "error", err)
	}
}
