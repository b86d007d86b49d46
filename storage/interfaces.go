package storage

import (
	"context"

	"github.com/poiesic/catalogmatch/core"
)

// CatalogStore is the read side of a reference catalog.
// Implementations must be thread-safe and support concurrent access.
type CatalogStore interface {
	// SearchSubstring returns entries of table whose name contains query,
	// compared case-insensitively. Returns at most limit entries.
	// Ordering beyond whatever relevance the store applies is unspecified.
	SearchSubstring(ctx context.Context, table, query string, limit int) ([]*core.CatalogEntry, error)

	// Count returns the number of entries in table.
	Count(ctx context.Context, table string) (int, error)

	// FetchPage returns up to limit entries of table starting at offset,
	// in a stable order.
	FetchPage(ctx context.Context, table string, offset, limit int) ([]*core.CatalogEntry, error)
}

// SynonymStore is the read side of the synonym and unit dictionaries.
// Implementations must be thread-safe and support concurrent access.
type SynonymStore interface {
	// CountSynonyms returns the number of entries of the given kind.
	CountSynonyms(ctx context.Context, kind core.SynonymKind) (int, error)

	// FetchSynonyms returns up to limit entries of the given kind starting
	// at offset, in a stable order.
	FetchSynonyms(ctx context.Context, kind core.SynonymKind, offset, limit int) ([]*core.SynonymEntry, error)
}

// CatalogRepository adds write operations to a CatalogStore.
type CatalogRepository interface {
	CatalogStore

	// AddEntries adds one or more entries to table.
	// Entries with ID=0 get a new ID from the table's sequence.
	// Returns the entries with generated IDs populated.
	AddEntries(ctx context.Context, table string, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error)

	// GetEntry retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, table string, id core.ID) (*core.CatalogEntry, error)

	// DeleteEntries removes entries by their IDs.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, table string, ids ...core.ID) error

	// Close releases resources held by the repository.
	Close() error
}

// SynonymRepository adds write operations to a SynonymStore.
type SynonymRepository interface {
	SynonymStore

	// AddSynonyms stores one or more entries.
	// Uses content-based IDs (IDFromContent of the entry key), so adding an
	// entry with an existing canonical key replaces it.
	AddSynonyms(ctx context.Context, entries ...*core.SynonymEntry) ([]*core.SynonymEntry, error)

	// DeleteSynonyms removes entries by their IDs.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteSynonyms(ctx context.Context, kind core.SynonymKind, ids ...core.ID) error

	// Close releases resources held by the repository.
	Close() error
}
