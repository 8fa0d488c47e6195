package scanner

import (
	"context"
	"fmt"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// PackDownload implements Scanner.
func (c *CLI) PackDownload(ctx context.Context, packs []string, qlconfigFile string) (*PackDownloadOutput, error) {
	path := []string{"pack", "download"}
	args := []string{"--format=json", "--resolve-query-specs"}

	if qlconfigFile != "" {
		args = append(args, "--qlconfig-file="+qlconfigFile)
	}

	args = append(args, packs...)

	stdout, err := c.invoke(ctx, command{path: path, args: args, suppressStdout: true})
	if err != nil {
		return nil, wrap(err)
	}

	out, err := parseJSON[PackDownloadOutput](path, stdout)
	if err != nil {
		return nil, err
	}

	if out.Packs == nil {
		return nil, &errors.MalformedOutputError{
			Command: "pack download",
			RawData: stdout,
			Err:     fmt.Errorf("missing packs list"),
		}
	}

	for i, pack := range out.Packs {
		if pack.Name == "" || pack.Version == "" {
			return nil, &errors.MalformedOutputError{
				Command: "pack download",
				RawData: stdout,
				Err:     fmt.Errorf("pack %d has no name or version", i),
			}
		}
	}

	return &out, nil
}

var mergeRules = []capability.Rule{
	{Token: capability.SarifMergeRunsFromEqualCategory, Flag: "--sarif-merge-runs-from-equal-category"},
}

// MergeResults implements Scanner.
func (c *CLI) MergeResults(ctx context.Context, sarifFiles []string, outputFile string, opts MergeOptions) error {
	args := []string{"--output=" + outputFile}

	for _, file := range sarifFiles {
		args = append(args, "--sarif="+file)
	}

	if opts.MergeRunsFromEqualCategory {
		flags, err := c.gate.Apply(ctx, mergeRules, nil)
		if err != nil {
			return err
		}

		args = append(args, flags...)
	}

	_, err := c.invoke(ctx, command{
		path: []string{"github", "merge-results"},
		args: args,
	})

	return wrap(err)
}

// DiagnosticsExport implements Scanner.
func (c *CLI) DiagnosticsExport(
	ctx context.Context,
	analysis *config.Analysis,
	sarifFile string,
	automationDetailsID string,
) error {
	redirect, err := c.redirectSarif(ctx, analysis, sarifFile)
	if err != nil {
		return err
	}
	defer redirect.Discard()

	args := []string{"--format=sarif-latest", "--output=" + redirect.OutputPath()}

	if automationDetailsID != "" {
		args = append(args, "--sarif-category="+automationDetailsID)
	}

	if _, err := c.invoke(ctx, command{path: []string{"diagnostics", "export"}, args: args}); err != nil {
		return wrap(err)
	}

	return redirect.Finish()
}
