// Command scannerctl inspects the analysis CLI the way the pipeline sees it:
// its version, languages, capabilities and the effective extra options.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
