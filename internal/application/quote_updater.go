package application

import (
	"context"
	"log/slog"
	"time"
)

type QuoteRefresher interface {
	RefreshQuotes(ctx context.Context) error
}

// QuoteUpdater refreshes underlying quotes on a fixed interval until stopped.
type QuoteUpdater struct {
	refresher QuoteRefresher
	interval  time.Duration
	stopChan  chan struct{}
}

func NewQuoteUpdater(refresher QuoteRefresher, interval time.Duration) *QuoteUpdater {
	return &QuoteUpdater{
		refresher: refresher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

func (u *QuoteUpdater) Start(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	slog.Info("Quote updater started", "interval", u.interval)

	for {
		select {
		case <-ticker.C:
			if err := u.refresher.RefreshQuotes(ctx); err != nil {
				slog.Error("Error refreshing quotes", "error", err)
			} else {
				slog.Debug("Quotes refreshed successfully")
			}
		case <-u.stopChan:
			slog.Info("Quote updater stopped")
			return
		case <-ctx.Done():
			slog.Info("Quote updater stopped due to context cancellation")
			return
		}
	}
}

func (u *QuoteUpdater) Stop() {
	close(u.stopChan)
}
