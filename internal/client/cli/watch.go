package cli

import (
	"context"

	"github.com/iudanet/mazadlive/internal/client/announce"
	"github.com/iudanet/mazadlive/internal/client/live"
	"github.com/iudanet/mazadlive/internal/client/notifications"
	"github.com/iudanet/mazadlive/internal/client/poller"
	"github.com/iudanet/mazadlive/internal/client/realtime"
)

// runWatch запускает live-компоненты до отмены ctx
func (c *Cli) runWatch(ctx context.Context) error {
	state, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	channel := realtime.NewChannel(realtime.DefaultConfig(c.cfg.RealtimeEndpoint(), c.cfg.APIKey), c.logger)
	feed := notifications.NewFeed(
		notifications.NewAggregator(c.apiClient, nil, c.logger),
		c.apiClient,
		c.render.Snapshot,
		c.logger,
	)
	bidPoller := poller.New(c.apiClient,
		poller.WithInterval(c.cfg.PollInterval),
		poller.WithOnResult(c.render.BidResult),
		poller.WithLogger(c.logger),
	)

	runtime := live.New(c.session, live.Components{
		Channel:   channel,
		Poller:    bidPoller,
		Feed:      feed,
		Presenter: announce.New(c.render, c.logger),
		Refresher: c.auth,
	}, nil, c.logger)

	c.io.Printf("Watching live updates for %s, press Ctrl+C to stop.\n", state.User.DisplayName())

	if err := runtime.Run(ctx); err != nil {
		return err
	}

	stats := channel.Stats()
	c.logger.Info("watch stopped",
		"reconnects", stats.Reconnects,
		"dropped", stats.Dropped,
		"poll_ticks", bidPoller.Ticks(),
		"poll_failures", bidPoller.Failures())

	return nil
}
