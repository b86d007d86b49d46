package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
// Each table lives under its own key prefix with its own ID sequence.
type CatalogRepository struct {
	backend *Backend

	mu        sync.Mutex
	sequences map[string]*badger.Sequence
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend required")
	}
	return &CatalogRepository{
		backend:   backend,
		sequences: make(map[string]*badger.Sequence),
	}, nil
}

// Close releases the ID sequences held by the repository.
func (r *CatalogRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for table, seq := range r.sequences {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release sequence %s: %w", table, err))
		}
		delete(r.sequences, table)
	}
	return errors.Join(errs...)
}

// nextID returns the next ID for table. IDs start at 1.
func (r *CatalogRepository) nextID(table string) (core.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq, ok := r.sequences[table]
	if !ok {
		var err error
		seq, err = r.backend.GetSequence(makeCatalogSeqKey(table))
		if err != nil {
			return 0, err
		}
		r.sequences[table] = seq
	}

	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return core.ID(n + 1), nil
}

// AddEntries adds one or more entries to table.
func (r *CatalogRepository) AddEntries(ctx context.Context, table string, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := core.ValidateCatalogEntry(entry); err != nil {
			return nil, err
		}
	}

	// Assign IDs before opening the write transaction
	for _, entry := range entries {
		if entry.Id != 0 {
			continue
		}
		id, err := r.nextID(table)
		if err != nil {
			return nil, err
		}
		entry.Id = id
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := tx.Set(makeCatalogKey(table, entry.Id), storage.MarshalCatalogEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// GetEntry retrieves a single entry by ID.
func (r *CatalogRepository) GetEntry(ctx context.Context, table string, id core.ID) (*core.CatalogEntry, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	var result *core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCatalogEntry(tx, makeCatalogKey(table, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteEntries removes entries by their IDs.
func (r *CatalogRepository) DeleteEntries(ctx context.Context, table string, ids ...core.ID) error {
	if err := validateTable(table); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCatalogKey(table, id)
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

// SearchSubstring returns entries whose name contains query, ignoring case.
// Entries are visited in ID order, so the first limit matches by ID win.
func (r *CatalogRepository) SearchSubstring(ctx context.Context, table, query string, limit int) ([]*core.CatalogEntry, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || limit <= 0 {
		return nil, fmt.Errorf("%w: query %q limit %d", storage.ErrInvalidQuery, query, limit)
	}

	var results []*core.CatalogEntry
	err := r.backend.scanPrefix(ctx, makeCatalogPrefix(table), true, func(item *badger.Item) (bool, error) {
		entry, err := readItemEntry(item)
		if err != nil {
			return false, err
		}
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			results = append(results, entry)
		}
		return len(results) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of entries in table.
func (r *CatalogRepository) Count(ctx context.Context, table string) (int, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.scanPrefix(ctx, makeCatalogPrefix(table), false, func(_ *badger.Item) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

// FetchPage returns up to limit entries starting at offset, in ID order.
func (r *CatalogRepository) FetchPage(ctx context.Context, table string, offset, limit int) ([]*core.CatalogEntry, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", storage.ErrInvalidQuery, offset, limit)
	}

	var results []*core.CatalogEntry
	skipped := 0
	err := r.backend.scanPrefix(ctx, makeCatalogPrefix(table), true, func(item *badger.Item) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		entry, err := readItemEntry(item)
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

// readCatalogEntry reads an entry from the transaction.
// Returns nil, nil when the key does not exist.
func readCatalogEntry(tx *badger.Txn, key []byte) (*core.CatalogEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return readItemEntry(item)
}

func readItemEntry(item *badger.Item) (*core.CatalogEntry, error) {
	var entry *core.CatalogEntry
	err := item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalCatalogEntry(val)
		return err
	})
	return entry, err
}
