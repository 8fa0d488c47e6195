package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	scannercli "github.com/wagiedev/scanner-cli-go"
	"github.com/wagiedev/scanner-cli-go/internal/capability"
)

func newVersionCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the analysis CLI version and feature flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.scanner(cmd)
			if err != nil {
				return err
			}

			info, err := s.Version(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			fmt.Fprintf(out, "version: %s\n", info.Version)

			for _, name := range slices.Sorted(maps.Keys(info.Features)) {
				fmt.Fprintf(out, "feature %s: %t\n", name, info.Features[name])
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the version query result as JSON")

	return cmd
}

func newLanguagesCmd(a *app) *cobra.Command {
	var filter bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages and their extractors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.scanner(cmd)
			if err != nil {
				return err
			}

			resolved, err := s.BetterResolveLanguages(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, language := range slices.Sorted(maps.Keys(resolved.Extractors)) {
				roots := make([]string, 0, len(resolved.Extractors[language]))
				for _, extractor := range resolved.Extractors[language] {
					roots = append(roots, extractor.ExtractorRoot)
				}

				fmt.Fprintf(out, "%s: %s\n", language, strings.Join(roots, ", "))
			}

			for _, alias := range slices.Sorted(maps.Keys(resolved.Aliases)) {
				fmt.Fprintf(out, "alias %s -> %s\n", alias, resolved.Aliases[alias])
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&filter, "with-queries", false, "only list languages that have queries")

	return cmd
}

func newCapabilitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show which capabilities the analysis CLI supports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.scanner(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CAPABILITY\tSUPPORTED\tMINIMUM")

			for _, tok := range scannercli.Capabilities() {
				supported, err := s.SupportsFeature(cmd.Context(), tok)
				if err != nil {
					return err
				}

				minimum, _ := capability.MinimumVersion(tok)
				if minimum == "" {
					minimum = "feature flag"
				} else {
					minimum = "> " + minimum
				}

				fmt.Fprintf(w, "%s\t%t\t%s\n", tok, supported, minimum)
			}

			return w.Flush()
		},
	}
}

func newExtraOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extra-options <subcommand words...>",
		Short: "Show the extra options appended to a CLI subcommand",
		Example: "  scannerctl extra-options database init\n" +
			"  scannerctl --extra-options '{\"*\": [\"--threads=0\"]}' extra-options resolve queries",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.extraOptionsTree()
			if err != nil {
				return err
			}

			if tree == nil {
				tree, err = scannercli.ExtraOptionsFromEnv()
				if err != nil {
					return err
				}
			}

			resolved, err := tree.Resolve(args...)
			if err != nil {
				return err
			}

			for _, arg := range resolved {
				fmt.Fprintln(cmd.OutOrStdout(), arg)
			}

			return nil
		},
	}
}
