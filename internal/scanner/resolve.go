package scanner

import (
	"context"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
)

var betterResolveRules = []capability.Rule{
	{Token: capability.ExtractorIncludeAliases, Flag: "--extractor-include-aliases"},
}

// ResolveLanguages implements Scanner.
func (c *CLI) ResolveLanguages(ctx context.Context) (map[string][]string, error) {
	path := []string{"resolve", "languages"}

	stdout, err := c.invoke(ctx, command{
		path:           path,
		args:           []string{"--format=json"},
		suppressStdout: true,
	})
	if err != nil {
		return nil, wrap(err)
	}

	return parseJSON[map[string][]string](path, stdout)
}

// BetterResolveLanguages implements Scanner.
func (c *CLI) BetterResolveLanguages(
	ctx context.Context,
	filterToLanguagesWithQueries bool,
) (*BetterResolveLanguagesOutput, error) {
	path := []string{"resolve", "languages"}
	args := []string{"--format=betterjson", "--extractor-options-verbosity=4"}

	flags, err := c.gate.Apply(ctx, betterResolveRules, nil)
	if err != nil {
		return nil, err
	}

	args = append(args, flags...)

	if filterToLanguagesWithQueries {
		args = append(args, "--filter-to-languages-with-queries")
	}

	stdout, err := c.invoke(ctx, command{path: path, args: args, suppressStdout: true})
	if err != nil {
		return nil, wrap(err)
	}

	out, err := parseJSON[BetterResolveLanguagesOutput](path, stdout)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveQueries implements Scanner.
func (c *CLI) ResolveQueries(
	ctx context.Context,
	queries []string,
	extraSearchPath string,
) (*ResolveQueriesOutput, error) {
	path := []string{"resolve", "queries"}
	args := append([]string{"--format=bylanguage"}, queries...)

	if extraSearchPath != "" {
		args = append(args, "--additional-packs", extraSearchPath)
	}

	stdout, err := c.invoke(ctx, command{path: path, args: args, suppressStdout: true})
	if err != nil {
		return nil, wrap(err)
	}

	out, err := parseJSON[ResolveQueriesOutput](path, stdout)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveBuildEnvironment implements Scanner.
func (c *CLI) ResolveBuildEnvironment(ctx context.Context, workingDir, language string) (*BuildEnvironment, error) {
	path := []string{"resolve", "build-environment"}
	args := []string{"--language=" + language}

	if workingDir != "" {
		args = append(args, "--working-dir", workingDir)
	}

	stdout, err := c.invoke(ctx, command{path: path, args: args, suppressStdout: true})
	if err != nil {
		return nil, wrap(err)
	}

	out, err := parseJSON[BuildEnvironment](path, stdout)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveExtractor implements Scanner.
func (c *CLI) ResolveExtractor(ctx context.Context, language string) (string, error) {
	path := []string{"resolve", "extractor"}

	stdout, err := c.invoke(ctx, command{
		path:           path,
		args:           []string{"--format=json", "--language=" + language},
		suppressStdout: true,
	})
	if err != nil {
		return "", wrap(err)
	}

	return parseJSON[string](path, stdout)
}
