// Package version resolves and memoizes the analysis CLI's version and
// declared feature flags, and enforces the supported version range.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

const (
	// MinimumVersion is the oldest analysis CLI release this layer drives.
	MinimumVersion = "2.10.5"

	// NextMinimumVersion is the release that will become MinimumVersion.
	// Older versions still work but trigger a one-time deprecation warning.
	NextMinimumVersion = "2.11.6"
)

// Info is the analysis CLI's self-reported version and feature flags.
// It is immutable once resolved.
type Info struct {
	Version  string          `json:"version"`
	Features map[string]bool `json:"features,omitempty"`
}

// Feature reports the explicit value of a feature flag and whether the flag
// was declared at all.
func (i *Info) Feature(name string) (enabled bool, declared bool) {
	enabled, declared = i.Features[name]

	return enabled, declared
}

// Querier runs the analysis CLI's version query and returns its raw output.
type Querier func(ctx context.Context) ([]byte, error)

// Resolver memoizes the version query for the lifetime of the process.
//
// Concurrent first calls share a single invocation of the querier. Once
// resolved the Info is never refreshed; Reset clears it for test isolation.
// Failed queries are not cached.
type Resolver struct {
	query Querier
	log   *slog.Logger

	mu     sync.RWMutex
	info   *Info
	flight singleflight.Group
}

// NewResolver creates a Resolver that obtains the version using query.
func NewResolver(query Querier, log *slog.Logger) *Resolver {
	return &Resolver{
		query: query,
		log:   log.With("component", "version_resolver"),
	}
}

// Get returns the analysis CLI's version information, invoking the version
// query at most once per process lifetime.
//
// The shared query runs detached from any single caller's cancellation;
// a cancelled caller stops waiting without failing the others.
func (r *Resolver) Get(ctx context.Context) (*Info, error) {
	r.mu.RLock()
	info := r.info
	r.mu.RUnlock()

	if info != nil {
		return info, nil
	}

	queryCtx := context.WithoutCancel(ctx)

	ch := r.flight.DoChan("version", func() (any, error) {
		r.mu.RLock()
		cached := r.info
		r.mu.RUnlock()

		if cached != nil {
			return cached, nil
		}

		r.log.Debug("Querying analysis CLI version")

		output, err := r.query(queryCtx)
		if err != nil {
			return nil, fmt.Errorf("query analysis CLI version: %w", err)
		}

		parsed, err := Parse(output)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.info = parsed
		r.mu.Unlock()

		r.log.Debug("Resolved analysis CLI version",
			"version", parsed.Version,
			"features", len(parsed.Features),
		)

		return parsed, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("query analysis CLI version: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		if res.Shared {
			r.log.Debug("Shared in-flight version query")
		}

		return res.Val.(*Info), nil
	}
}

// Reset discards the cached version. Intended for tests only.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.info = nil
	r.flight.Forget("version")
}

// Parse decodes the JSON body of the version query.
// A body that does not parse, or a version that is not semantic, is a
// configuration error.
func Parse(output []byte) (*Info, error) {
	var info Info

	if err := json.Unmarshal(output, &info); err != nil {
		return nil, &errors.ConfigurationError{
			Message: fmt.Sprintf("could not parse analysis CLI version output %q", strings.TrimSpace(string(output))),
			Err:     err,
		}
	}

	if !IsValid(info.Version) {
		return nil, &errors.ConfigurationError{
			Message: fmt.Sprintf("analysis CLI reported an invalid version %q", info.Version),
		}
	}

	return &info, nil
}

// IsValid reports whether v is a semantic version, with or without a
// leading "v".
func IsValid(v string) bool {
	return v != "" && semver.IsValid(canonical(v))
}

// Compare compares two semantic versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

// Above reports whether v is strictly later than minimum.
func Above(v, minimum string) bool {
	return Compare(v, minimum) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	return v
}

// deprecationWarned guards the process-wide one-time deprecation warning.
var deprecationWarned atomic.Bool

// Enforce checks info against MinimumVersion and NextMinimumVersion.
//
// Versions below MinimumVersion yield a ConfigurationError wrapping
// ErrBelowMinimumVersion. Versions below NextMinimumVersion log a warning,
// at most once per process.
func Enforce(info *Info, log *slog.Logger) error {
	if Compare(info.Version, MinimumVersion) < 0 {
		return &errors.ConfigurationError{
			Message: fmt.Sprintf(
				"analysis CLI version %s is not supported; the minimum supported version is %s",
				info.Version, MinimumVersion,
			),
			Err: errors.ErrBelowMinimumVersion,
		}
	}

	if Compare(info.Version, NextMinimumVersion) < 0 && deprecationWarned.CompareAndSwap(false, true) {
		log.Warn("Analysis CLI version will soon be unsupported",
			"version", info.Version,
			"next_minimum", NextMinimumVersion,
		)
	}

	return nil
}

// ResetDeprecationWarning re-arms the one-time deprecation warning.
// Intended for tests only.
func ResetDeprecationWarning() {
	deprecationWarned.Store(false)
}
