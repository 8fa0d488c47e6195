package cli

import (
	"fmt"
	"maps"
	"slices"
)

// LayerVersion identifies this invocation layer to the analysis CLI.
const LayerVersion = "0.1.0"

// BuildEnvironment returns the KEY=VALUE pairs added to the inherited
// environment of every analysis CLI process. User-provided variables come
// last, in key order, so they override the defaults.
func BuildEnvironment(extra map[string]string) []string {
	env := []string{
		"SCANNER_INVOCATION_LAYER=go",
		"SCANNER_INVOCATION_LAYER_VERSION=" + LayerVersion,
	}

	for _, key := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, fmt.Sprintf("%s=%s", key, extra[key]))
	}

	return env
}
