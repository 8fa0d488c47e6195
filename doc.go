// Package scannercli drives an external static-analysis CLI from a
// continuous-integration pipeline.
//
// The CLI's version and feature flags are queried once per process and
// decide which flags each command may use. User-supplied extra options are
// appended to every command, and SARIF output from CLI versions with known
// defects is repaired before callers see it.
//
// # Basic Usage
//
//	ctx := context.Background()
//	s, err := scannercli.New(
//	    scannercli.WithLogger(slog.Default()),
//	    scannercli.WithCliPath("/opt/scanner/scanner"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analysis := &scannercli.Analysis{
//	    Languages:  []string{"go"},
//	    BuildMode:  scannercli.BuildModeNone,
//	    DBLocation: "/tmp/db",
//	}
//
//	if err := s.DatabaseInitCluster(ctx, analysis, ".", ""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Extra Options
//
// Extra options are a tree keyed by subcommand words. A "*" key at any level
// applies to every command below it:
//
//	{"*": ["--threads=0"], "database": {"init": ["--ram=4096"]}}
//
// The tree is read from SCANNER_ACTION_EXTRA_OPTIONS unless WithExtraOptions
// is given.
//
// # Error Handling
//
// Failures are typed. Use errors.AsType to inspect them:
//
//	if cfgErr, ok := errors.AsType[*scannercli.ConfigurationError](err); ok {
//	    fmt.Println("fix the configuration:", cfgErr.Message)
//	}
//
// Known user-correctable CLI failures are reported as ConfigurationError
// wrapping the original InvocationError.
package scannercli
