// Package cli locates the analysis CLI binary and builds the environment it
// runs with.
//
// # CLI Discovery
//
// The Discoverer interface stands in for the tool installation step: it
// returns the executable path every invocation uses.
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    CliPath: "",           // Optional explicit path
//	    Logger:  slog.Default(),
//	})
//	cliPath, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.CliPath (if provided)
//  2. The SCANNER_CLI_PATH environment variable
//  3. System PATH
//  4. Common installation directories (/usr/local/bin, /opt/scanner, ~/.local/bin)
//
// # Environment
//
// BuildEnvironment returns the extra variables identifying this invocation
// layer to the analysis CLI.
package cli
