package capability

import (
	"context"
	"os"
)

// Rule appends at most one flag depending on a capability decision.
//
// Flag is used when Token is supported, Otherwise when it is not; either may
// be empty. Both may reference ${name} placeholders expanded from the call's
// variables; a placeholder that expands to the empty string suppresses the
// flag.
type Rule struct {
	Token Token
	Flag  string
	// Otherwise is used when Token is not supported.
	Otherwise string
	// OnPlatform also requires the gate's platform to qualify.
	OnPlatform bool
}

// Apply evaluates rules in order and returns the resulting flags.
func (g *Gate) Apply(ctx context.Context, rules []Rule, vars map[string]string) ([]string, error) {
	flags := make([]string, 0, len(rules))

	for _, rule := range rules {
		var (
			supported bool
			err       error
		)

		if rule.OnPlatform {
			supported, err = g.SupportsOnPlatform(ctx, rule.Token)
		} else {
			supported, err = g.Supports(ctx, rule.Token)
		}

		if err != nil {
			return nil, err
		}

		template := rule.Otherwise
		if supported {
			template = rule.Flag
		}

		if flag, ok := expand(template, vars); ok {
			flags = append(flags, flag)
		}
	}

	return flags, nil
}

// expand substitutes ${name} placeholders. It reports false when the template
// is empty or references a missing or empty variable.
func expand(template string, vars map[string]string) (string, bool) {
	if template == "" {
		return "", false
	}

	complete := true

	flag := os.Expand(template, func(name string) string {
		value := vars[name]
		if value == "" {
			complete = false
		}

		return value
	})

	return flag, complete
}
