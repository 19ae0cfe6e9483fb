package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runBids(ctx context.Context) error {
	state, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	result, err := c.apiClient.CheckBids(ctx, state.AccessToken(), state.UserID())
	if err != nil {
		return fmt.Errorf("failed to check bids: %w", err)
	}

	c.render.Bids(result)
	return nil
}
