package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/metrics"
)

// QuoteCache keeps the last quote of every underlying referenced by a stored
// instrument. Misses are fetched from the provider on demand.
type QuoteCache struct {
	provider marketdata.QuoteProvider
	repo     domain.InstrumentRepository

	mu     sync.RWMutex
	quotes map[string]marketdata.Quote
}

func NewQuoteCache(provider marketdata.QuoteProvider, repo domain.InstrumentRepository) *QuoteCache {
	return &QuoteCache{
		provider: provider,
		repo:     repo,
		quotes:   make(map[string]marketdata.Quote),
	}
}

func (c *QuoteCache) Quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	c.mu.RLock()
	q, ok := c.quotes[symbol]
	c.mu.RUnlock()
	if ok {
		return &q, nil
	}

	fetched, err := c.provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.store(*fetched, symbol)
	return fetched, nil
}

func (c *QuoteCache) store(q marketdata.Quote, symbol string) {
	c.mu.Lock()
	c.quotes[symbol] = q
	c.mu.Unlock()
}

// RefreshQuotes reloads the quotes of all stored instruments. It uses a single
// batch request when the provider supports it. Failed symbols keep their
// previous quote and are reported together.
func (c *QuoteCache) RefreshQuotes(ctx context.Context) error {
	instruments, err := c.repo.FindAll(ctx)
	if err != nil {
		metrics.QuoteRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load instruments: %w", err)
	}
	symbols := marketdata.Symbols(instruments)
	if len(symbols) == 0 {
		return nil
	}

	var errs []error
	if batch, ok := c.provider.(marketdata.BatchQuoteProvider); ok {
		slog.DebugContext(ctx, "Refreshing quotes in batch", "count", len(symbols))
		for _, r := range batch.GetQuoteBatch(ctx, symbols) {
			if r.Error != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.Symbol, r.Error))
				continue
			}
			c.store(*r.Quote, r.Symbol)
		}
	} else {
		for _, symbol := range symbols {
			q, err := c.provider.GetQuote(ctx, symbol)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				continue
			}
			c.store(*q, symbol)
		}
	}

	if len(errs) > 0 {
		metrics.QuoteRefreshTotal.WithLabelValues("partial").Inc()
		return fmt.Errorf("failed to refresh %d of %d quotes: %w", len(errs), len(symbols), errors.Join(errs...))
	}
	metrics.QuoteRefreshTotal.WithLabelValues("ok").Inc()
	return nil
}
