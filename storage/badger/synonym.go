package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// SynonymRepository implements storage.SynonymRepository for BadgerDB.
type SynonymRepository struct {
	backend *Backend
}

var _ storage.SynonymRepository = (*SynonymRepository)(nil)

// NewSynonymRepository creates a new SynonymRepository.
func NewSynonymRepository(backend *Backend) (*SynonymRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend required")
	}
	return &SynonymRepository{
		backend: backend,
	}, nil
}

// Close releases resources. SynonymRepository has no resources to release.
func (r *SynonymRepository) Close() error {
	return nil
}

// AddSynonyms stores one or more entries under content-based IDs.
func (r *SynonymRepository) AddSynonyms(ctx context.Context, entries ...*core.SynonymEntry) ([]*core.SynonymEntry, error) {
	for _, entry := range entries {
		if err := core.ValidateSynonymEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			// Use content-based ID if not set
			if entry.Id == 0 {
				entry.Id = core.IDFromContent(entry.Key())
			}
			key := makeSynonymKey(entry.Kind, entry.Id)
			if err := tx.Set(key, storage.MarshalSynonymEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// DeleteSynonyms removes entries by their IDs.
func (r *SynonymRepository) DeleteSynonyms(ctx context.Context, kind core.SynonymKind, ids ...core.ID) error {
	if err := core.ValidateSynonymKind(kind); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeSynonymKey(kind, id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountSynonyms returns the number of entries of the given kind.
func (r *SynonymRepository) CountSynonyms(ctx context.Context, kind core.SynonymKind) (int, error) {
	if err := core.ValidateSynonymKind(kind); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.scanPrefix(ctx, makeSynonymPrefix(kind), false, func(_ *badger.Item) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

// FetchSynonyms returns up to limit entries of the given kind starting at offset.
func (r *SynonymRepository) FetchSynonyms(ctx context.Context, kind core.SynonymKind, offset, limit int) ([]*core.SynonymEntry, error) {
	if err := core.ValidateSynonymKind(kind); err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", storage.ErrInvalidQuery, offset, limit)
	}

	var results []*core.SynonymEntry
	skipped := 0
	err := r.backend.scanPrefix(ctx, makeSynonymPrefix(kind), true, func(item *badger.Item) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		var entry *core.SynonymEntry
		err := item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalSynonymEntry(val)
			return err
		})
		if err != nil {
			return false, err
		}
		results = append(results, entry)
		return len(results) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
