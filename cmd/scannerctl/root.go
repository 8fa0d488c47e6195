package main

import (
	"context"
	"log/slog"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	scannercli "github.com/wagiedev/scanner-cli-go"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	cliPath      string
	extraOptions string
	verbose      bool
	trace        bool
	metrics      bool
}

// app carries state built once the flags are parsed.
type app struct {
	flags    globalFlags
	log      *slog.Logger
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "scannerctl",
		Short: "Inspect the analysis CLI invocation layer",
		Long: "scannerctl reports the analysis CLI version, supported languages and capabilities, " +
			"and shows which extra options each subcommand would receive.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.cliPath, "cli-path", "", "path to the analysis CLI binary (default: discover)")
	flags.StringVar(&a.flags.extraOptions, "extra-options", "",
		"extra options tree as JSON or YAML (default: $SCANNER_ACTION_EXTRA_OPTIONS)")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.flags.trace, "trace", false, "write invocation spans to stderr")
	flags.BoolVar(&a.flags.metrics, "metrics", false, "write invocation metrics to stderr on exit")

	root.AddCommand(
		newVersionCmd(a),
		newLanguagesCmd(a),
		newCapabilitiesCmd(a),
		newExtraOptionsCmd(a),
	)

	return root
}

// setup configures logging and telemetry for the invoked subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	level := clog.InfoLevel
	if a.flags.verbose {
		level = clog.DebugLevel
	}

	handler := clog.NewWithOptions(cmd.ErrOrStderr(), clog.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	a.log = slog.New(handler)

	if a.flags.trace {
		shutdown, err := initTracer(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		a.shutdown = shutdown
	}

	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.shutdown != nil {
		if err := a.shutdown(cmd.Context()); err != nil {
			return err
		}
	}

	if a.flags.metrics {
		return writeMetrics(cmd.ErrOrStderr())
	}

	return nil
}

// extraOptionsTree parses --extra-options, or returns nil to fall back to the
// environment.
func (a *app) extraOptionsTree() (*scannercli.ExtraOptions, error) {
	if a.flags.extraOptions == "" {
		return nil, nil
	}

	return scannercli.ParseExtraOptions([]byte(a.flags.extraOptions))
}

// scanner builds a Scanner from the global flags. Narration of CLI
// invocations goes to stderr so stdout carries only command results.
func (a *app) scanner(cmd *cobra.Command) (scannercli.Scanner, error) {
	extra, err := a.extraOptionsTree()
	if err != nil {
		return nil, err
	}

	opts := []scannercli.Option{
		scannercli.WithLogger(a.log),
		scannercli.WithOutput(cmd.ErrOrStderr()),
		scannercli.WithExtraOptions(extra),
	}

	if a.flags.cliPath != "" {
		opts = append(opts, scannercli.WithCliPath(a.flags.cliPath))
	}

	return scannercli.New(opts...)
}
