package scanner

import (
	"context"
	"sync"

	"github.com/wagiedev/scanner-cli-go/internal/subprocess"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

// sharedVersions caches version resolvers per executable path for the
// process lifetime, so every CLI driving the same binary queries it once.
var sharedVersions = struct {
	sync.Mutex
	byPath map[string]*version.Resolver
}{byPath: make(map[string]*version.Resolver)}

// ResetVersionCache forgets every process-wide cached version.
// Intended for tests only.
func ResetVersionCache() {
	sharedVersions.Lock()
	defer sharedVersions.Unlock()

	clear(sharedVersions.byPath)
	version.ResetDeprecationWarning()
}

// resolver returns the injected resolver or the process-wide one for the
// discovered executable.
func (c *CLI) resolver(ctx context.Context) (*version.Resolver, error) {
	if c.versions != nil {
		return c.versions, nil
	}

	executable, err := c.executable(ctx)
	if err != nil {
		return nil, err
	}

	sharedVersions.Lock()
	defer sharedVersions.Unlock()

	r, ok := sharedVersions.byPath[executable]
	if !ok {
		r = version.NewResolver(c.versionQuery(executable), c.log)
		sharedVersions.byPath[executable] = r
	}

	return r, nil
}

// versionQuery runs the version subcommand without streaming its JSON.
func (c *CLI) versionQuery(executable string) version.Querier {
	return func(ctx context.Context) ([]byte, error) {
		stdout, err := c.runner.Run(ctx, executable, []string{"version", "--format=json"}, &subprocess.Options{
			SuppressStdout: true,
			Env:            c.env,
		})
		if err != nil {
			return nil, err
		}

		return []byte(stdout), nil
	}
}

// Version implements Scanner. It fails with a ConfigurationError when the CLI
// is below the minimum supported version, unless the check is disabled.
func (c *CLI) Version(ctx context.Context) (*version.Info, error) {
	r, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}

	info, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !c.skipVersionCheck {
		if err := version.Enforce(info, c.log); err != nil {
			return nil, err
		}
	}

	return info, nil
}

// PrintVersion implements Scanner.
func (c *CLI) PrintVersion(ctx context.Context) error {
	executable, err := c.executable(ctx)
	if err != nil {
		return err
	}

	_, err = c.runner.Run(ctx, executable, []string{"version", "--format=json"}, &subprocess.Options{Env: c.env})

	return err
}

// versionSource adapts CLI to capability.VersionSource.
type versionSource struct {
	c *CLI
}

func (v versionSource) Get(ctx context.Context) (*version.Info, error) {
	return v.c.Version(ctx)
}
