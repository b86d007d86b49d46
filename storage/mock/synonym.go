package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// SynonymStore is a mock implementation of storage.SynonymStore.
type SynonymStore struct {
	// CountSynonymsFunc is called by CountSynonyms if set.
	CountSynonymsFunc func(ctx context.Context, kind core.SynonymKind) (int, error)

	// FetchSynonymsFunc is called by FetchSynonyms if set.
	FetchSynonymsFunc func(ctx context.Context, kind core.SynonymKind, offset, limit int) ([]*core.SynonymEntry, error)

	// Entries backs the default behavior.
	Entries []*core.SynonymEntry

	fetches atomic.Int64
}

var _ storage.SynonymStore = (*SynonymStore)(nil)

// NewSynonymStore creates a mock synonym store serving entries.
func NewSynonymStore(entries ...*core.SynonymEntry) *SynonymStore {
	return &SynonymStore{Entries: entries}
}

// CountSynonyms returns the number of entries of kind.
func (m *SynonymStore) CountSynonyms(ctx context.Context, kind core.SynonymKind) (int, error) {
	if m.CountSynonymsFunc != nil {
		return m.CountSynonymsFunc(ctx, kind)
	}
	return len(m.ofKind(kind)), nil
}

// FetchSynonyms returns a window of the entries of kind.
func (m *SynonymStore) FetchSynonyms(ctx context.Context, kind core.SynonymKind, offset, limit int) ([]*core.SynonymEntry, error) {
	m.fetches.Add(1)
	if m.FetchSynonymsFunc != nil {
		return m.FetchSynonymsFunc(ctx, kind, offset, limit)
	}
	return window(m.ofKind(kind), offset, limit), nil
}

// FetchCount returns the number of FetchSynonyms calls.
func (m *SynonymStore) FetchCount() int {
	return int(m.fetches.Load())
}

func (m *SynonymStore) ofKind(kind core.SynonymKind) []*core.SynonymEntry {
	var out []*core.SynonymEntry
	for _, e := range m.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
