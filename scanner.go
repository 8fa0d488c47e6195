package scannercli

import "github.com/wagiedev/scanner-cli-go/internal/scanner"

// Scanner is the set of analysis CLI operations.
//
// Every operation decides its flags from the CLI's capabilities, appends the
// user's extra options for the subcommand last, and runs the CLI once.
// Failures are never retried.
type Scanner = scanner.Scanner

// New creates a Scanner.
//
// The CLI is discovered and its version queried on first use. An extra
// options tree in the environment that does not parse is reported here.
func New(opts ...Option) (Scanner, error) {
	s, err := scanner.New(applyOptions(opts))
	if err != nil {
		return nil, err
	}

	return s, nil
}

// ResetVersionCache forgets every process-wide cached CLI version.
// Intended for tests only.
func ResetVersionCache() {
	scanner.ResetVersionCache()
}
