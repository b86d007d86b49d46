package search

import (
	"context"
	"time"

	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// catalogLookup issues bounded substring lookups against one catalog table.
type catalogLookup struct {
	store   storage.CatalogStore
	table   string
	timeout time.Duration
}

func (l *catalogLookup) find(ctx context.Context, text string, limit int) ([]*core.CatalogEntry, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.store.SearchSubstring(ctx, l.table, text, limit)
}
