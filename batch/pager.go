package batch

import (
	"context"
	"fmt"
	"time"
)

// DefaultPageSize is the number of items fetched per page when none is set.
const DefaultPageSize = 500

// CountFunc returns the number of items available.
type CountFunc func(ctx context.Context) (int, error)

// FetchFunc returns up to limit items starting at offset.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Pager walks a count/fetch-page API one page at a time.
type Pager[T any] struct {
	count      CountFunc
	fetch      FetchFunc[T]
	pageSize   int
	attempts   int
	retryDelay time.Duration
}

// PagerOption configures a Pager.
type PagerOption func(*pagerConfig)

type pagerConfig struct {
	pageSize   int
	attempts   int
	retryDelay time.Duration
}

// WithPageSize sets the page size.
func WithPageSize(n int) PagerOption {
	return func(c *pagerConfig) {
		c.pageSize = n
	}
}

// WithRetry retries each count and fetch call up to attempts times.
func WithRetry(attempts int, baseDelay time.Duration) PagerOption {
	return func(c *pagerConfig) {
		c.attempts = attempts
		c.retryDelay = baseDelay
	}
}

// NewPager creates a Pager over count and fetch. Without options it fetches
// DefaultPageSize items per page and does not retry.
func NewPager[T any](count CountFunc, fetch FetchFunc[T], opts ...PagerOption) *Pager[T] {
	cfg := pagerConfig{pageSize: DefaultPageSize, attempts: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pager[T]{
		count:      count,
		fetch:      fetch,
		pageSize:   cfg.pageSize,
		attempts:   cfg.attempts,
		retryDelay: cfg.retryDelay,
	}
}

// Total returns the item count reported by the store.
func (p *Pager[T]) Total(ctx context.Context) (int, error) {
	var total int
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		total, err = p.count(ctx)
		return err
	}, p.attempts, p.retryDelay)
	return total, err
}

// ForEach calls fn with each page in order. Iteration stops at the first
// error, at a short or empty page, or once the initial count is reached.
// Context cancellation is checked between pages.
func (p *Pager[T]) ForEach(ctx context.Context, fn func(page []T) error) error {
	if p.pageSize <= 0 {
		return ErrInvalidPageSize
	}

	total, err := p.Total(ctx)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}

	for offset := 0; offset < total; {
		if err := ctx.Err(); err != nil {
			return err
		}

		var page []T
		err := RetryWithBackoff(ctx, func(ctx context.Context) error {
			var err error
			page, err = p.fetch(ctx, offset, p.pageSize)
			return err
		}, p.attempts, p.retryDelay)
		if err != nil {
			return fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			return nil
		}

		if err := fn(page); err != nil {
			return err
		}

		offset += len(page)
		if len(page) < p.pageSize {
			return nil
		}
	}
	return nil
}
