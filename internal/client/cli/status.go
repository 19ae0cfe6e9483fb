package cli

import (
	"context"
)

func (c *Cli) runStatus(ctx context.Context) error {
	state := c.session.InitializeAuth(ctx)
	c.render.Status(state)
	return nil
}
