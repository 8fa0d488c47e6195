package errors

import (
	"errors"
	"strings"
)

// Category names a known, user-correctable analysis CLI failure.
type Category string

// Known failure categories.
const (
	CategoryNoSourceCodeSeen         Category = "NoSourceCodeSeen"
	CategoryNoBuildCommandDetected   Category = "NoBuildCommandAutodetected"
	CategoryNoBuildMethodDetected    Category = "NoBuildMethodAutodetected"
	CategoryInitCalledTwice          Category = "InitCalledTwice"
	CategoryInvalidSourceRoot        Category = "InvalidSourceRoot"
	CategoryOutOfMemory              Category = "OutOfMemory"
	CategoryPackCannotBeFound        Category = "PackCannotBeFound"
	CategoryPackMissingAuth          Category = "PackMissingAuth"
	CategoryUnsupportedBuildMode     Category = "UnsupportedBuildMode"
	CategoryIncompatibleWithCLIRange Category = "IncompatibleWithActionVersion"
)

// knownFailure matches an InvocationError by exit code and/or stderr text.
// A zero exitCode matches any exit code; an empty list of fragments matches
// any stderr.
type knownFailure struct {
	category  Category
	exitCode  int
	fragments []string
	hint      string
}

var knownFailures = []knownFailure{
	{
		category: CategoryNoSourceCodeSeen,
		exitCode: 32,
		hint:     "no source code was seen during the build; check that the build command compiles the sources being analyzed",
	},
	{
		category:  CategoryNoBuildCommandDetected,
		fragments: []string{"Could not auto-detect a suitable build method"},
		hint:      "no build command could be detected; supply manual build steps",
	},
	{
		category:  CategoryNoBuildMethodDetected,
		fragments: []string{"Could not detect a suitable build command for the source checkout"},
		hint:      "no build method could be detected; supply manual build steps",
	},
	{
		category:  CategoryInitCalledTwice,
		fragments: []string{"Refusing to create databases", "exists and is not an empty directory"},
		hint:      "the database cluster already exists; initialization was probably run twice",
	},
	{
		category:  CategoryInvalidSourceRoot,
		fragments: []string{"Invalid source root"},
		hint:      "the configured source root does not exist",
	},
	{
		category:  CategoryOutOfMemory,
		fragments: []string{"Aborting due to low memory"},
		hint:      "the analysis ran out of memory; increase the memory limit",
	},
	{
		category:  CategoryPackCannotBeFound,
		fragments: []string{"Query pack", "cannot be found"},
		hint:      "a requested query pack does not exist in the registry",
	},
	{
		category:  CategoryPackMissingAuth,
		fragments: []string{"GitHub Container registry", "403 Forbidden"},
		hint:      "a requested query pack requires authentication",
	},
	{
		category:  CategoryUnsupportedBuildMode,
		fragments: []string{"does not support the", "build mode"},
		hint:      "the requested build mode is not supported for this language",
	},
	{
		category:  CategoryIncompatibleWithCLIRange,
		fragments: []string{"is not compatible with this CLI"},
		hint:      "the analysis CLI is incompatible with this version of the invocation layer",
	},
}

// WrapKnown upgrades an InvocationError with a recognized, user-correctable
// cause into a ConfigurationError. Any other error is returned unchanged.
func WrapKnown(err error) error {
	invocationErr, ok := errors.AsType[*InvocationError](err)
	if !ok {
		return err
	}

	for _, known := range knownFailures {
		if known.matches(invocationErr) {
			return &ConfigurationError{
				Message:  known.hint,
				Category: string(known.category),
				Err:      err,
			}
		}
	}

	return err
}

func (k knownFailure) matches(e *InvocationError) bool {
	if k.exitCode != 0 && k.exitCode != e.ExitCode {
		return false
	}

	for _, fragment := range k.fragments {
		if !strings.Contains(e.Stderr, fragment) {
			return false
		}
	}

	return k.exitCode != 0 || len(k.fragments) > 0
}
