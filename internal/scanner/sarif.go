package scanner

import (
	"context"

	"github.com/wagiedev/scanner-cli-go/internal/capability"
	"github.com/wagiedev/scanner-cli-go/internal/config"
	"github.com/wagiedev/scanner-cli-go/internal/sarif"
)

// redirectSarif stages SARIF output at an intermediate path when the results
// are uploaded and the CLI still emits invalid notifications. The analysis's
// scratch directory, when set, takes precedence over the scanner's own.
func (c *CLI) redirectSarif(ctx context.Context, analysis *config.Analysis, sarifFile string) (*sarif.Redirect, error) {
	needed, err := c.needsNotificationWorkaround(ctx, analysis)
	if err != nil {
		return nil, err
	}

	post := c.post
	if analysis != nil {
		post = post.In(analysis.TempDir)
	}

	return post.MaybeRedirect(sarifFile, needed)
}

func (c *CLI) needsNotificationWorkaround(ctx context.Context, analysis *config.Analysis) (bool, error) {
	if analysis == nil || !analysis.UploadEnabled {
		return false, nil
	}

	fixed, err := c.supports(ctx, capability.FixedInvalidNotifications)
	if err != nil {
		return false, err
	}

	return !fixed, nil
}
