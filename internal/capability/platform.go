package capability

import (
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// PlatformKind identifies the orchestration platform hosting the pipeline.
type PlatformKind string

// Known platform kinds.
const (
	PlatformDotcom     PlatformKind = "dotcom"
	PlatformEnterprise PlatformKind = "enterprise"
)

// Platform is the enclosing orchestration platform and its release.
type Platform struct {
	Kind PlatformKind
	// Version is the enterprise server release, e.g. "3.12". Empty for dotcom
	// and for development builds.
	Version string
}

// Satisfies reports whether the platform strictly exceeds the enterprise
// server release minimum. Dotcom, and enterprise servers with no version, are
// always current.
func (p Platform) Satisfies(minimum string) bool {
	if p.Kind != PlatformEnterprise || p.Version == "" {
		return true
	}

	return version.Above(p.Version, minimum)
}
