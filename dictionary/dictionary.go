// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package dictionary holds the in-memory synonym and unit-of-measure index.
//
// A Dictionary is loaded from a storage.SynonymStore on first use and shared
// by every resolution call. Concurrent Initialize calls that race on first
// use wait for the same load. Reset drops the index; the next Initialize
// reloads it. Lookups between Reset and the reload see an empty dictionary.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/storage"
	"golang.org/x/sync/singleflight"
)

// Stats summarizes a loaded dictionary.
type Stats struct {
	MaterialKeys    int
	MaterialAliases int
	Units           int
	UnitAliases     int

	// Fingerprint is an xxhash of the loaded rows in store order. It changes
	// whenever the dictionary content changes.
	Fingerprint uint64
	LoadedAt    time.Time
}

// Dictionary is the shared synonym and unit index.
type Dictionary struct {
	store  storage.SynonymStore
	paging config.DictionaryConfig
	logger *slog.Logger

	group singleflight.Group

	mu  sync.RWMutex
	idx *index
	// gen is bumped by Reset. A load publishes only if gen is unchanged.
	gen uint64
}

// Option configures a Dictionary.
type Option func(*Dictionary) error

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dictionary) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithPaging sets the page size and retry policy used while loading.
func WithPaging(paging config.DictionaryConfig) Option {
	return func(d *Dictionary) error {
		if paging.PageSize <= 0 || paging.MaxRetries <= 0 || paging.RetryDelay < 0 {
			return fmt.Errorf("%w: %+v", config.ErrInvalidConfig, paging)
		}
		d.paging = paging
		return nil
	}
}

// New creates an uninitialized Dictionary over store.
func New(store storage.SynonymStore, opts ...Option) (*Dictionary, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	d := &Dictionary{
		store:  store,
		paging: config.DefaultConfig().Dictionary,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Initialize loads the dictionary if it is not loaded yet. Repeat calls are
// no-ops. Concurrent callers share a single in-flight load and its result.
// A load that overlaps a Reset is discarded and repeated.
func (d *Dictionary) Initialize(ctx context.Context) error {
	for {
		if d.current() != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err, _ := d.group.Do("load", func() (any, error) {
			d.mu.RLock()
			loaded, gen := d.idx != nil, d.gen
			d.mu.RUnlock()
			if loaded {
				return nil, nil
			}

			idx, err := d.load(ctx)
			if err != nil {
				return nil, err
			}

			d.mu.Lock()
			stale := d.gen != gen
			if !stale {
				d.idx = idx
			}
			d.mu.Unlock()
			if stale {
				d.logger.Debug("dictionary reset during load, reloading")
				return nil, errStaleLoad
			}

			d.logger.Info("dictionary loaded",
				"materials", idx.stats.MaterialKeys,
				"units", idx.stats.Units,
				"unitAliases", idx.stats.UnitAliases,
				"fingerprint", fmt.Sprintf("%016x", idx.stats.Fingerprint))
			return nil, nil
		})
		if errors.Is(err, errStaleLoad) {
			continue
		}
		return err
	}
}

// Initialized reports whether an index is loaded.
func (d *Dictionary) Initialized() bool {
	return d.current() != nil
}

// Reset drops the loaded index so the next Initialize reloads from the store.
func (d *Dictionary) Reset() {
	d.mu.Lock()
	d.idx = nil
	d.gen++
	d.mu.Unlock()
	d.logger.Debug("dictionary reset")
}

// Stats returns statistics of the loaded index. ok is false when the
// dictionary is not loaded.
func (d *Dictionary) Stats() (stats Stats, ok bool) {
	idx := d.current()
	if idx == nil {
		return Stats{}, false
	}
	return idx.stats, true
}

// current returns the loaded index. An index is never mutated after it is
// published, so callers may use it without holding the lock.
func (d *Dictionary) current() *index {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.idx
}
