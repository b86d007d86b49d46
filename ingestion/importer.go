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


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/catalogmatch/batch"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/dictionary"
	"github.com/poiesic/catalogmatch/storage"
)

const defaultBatchSize = 500

// Importer writes catalog rows and dictionary entries in batches.
type Importer struct {
	catalog   storage.CatalogRepository
	synonyms  storage.SynonymRepository
	dict      *dictionary.Dictionary
	batchSize int
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithBatchSize sets the number of rows written per store call.
func WithBatchSize(size int) Option {
	return func(i *Importer) error {
		if size <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		i.batchSize = size
		return nil
	}
}

// WithProgress reports progress to w. No progress is reported by default.
func WithProgress(w io.Writer) Option {
	return func(i *Importer) error {
		i.progress = w
		return nil
	}
}

// WithDictionary sets the dictionary to reset after synonym writes.
func WithDictionary(dict *dictionary.Dictionary) Option {
	return func(i *Importer) error {
		i.dict = dict
		return nil
	}
}

// NewImporter creates an importer writing to catalog and synonyms.
func NewImporter(catalog storage.CatalogRepository, synonyms storage.SynonymRepository, opts ...Option) (*Importer, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if synonyms == nil {
		return nil, ErrSynonymRepositoryRequired
	}

	i := &Importer{
		catalog:   catalog,
		synonyms:  synonyms,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// ImportEntries adds one catalog entry per name to table. Blank names are
// skipped. Returns the number of entries written; on error, the entries of
// earlier batches stay written.
func (i *Importer) ImportEntries(ctx context.Context, table string, names []string) (int, error) {
	entries := make([]*core.CatalogEntry, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		entries = append(entries, &core.CatalogEntry{Name: name})
	}

	written, err := writeBatches(ctx, i, "entries", entries, func(ctx context.Context, chunk []*core.CatalogEntry) error {
		_, err := i.catalog.AddEntries(ctx, table, chunk...)
		return err
	})
	i.logger.Info("imported catalog entries", "table", table, "count", written, "skipped", len(names)-len(entries))
	return written, err
}

// ImportSynonyms stores dictionary entries and resets the dictionary when
// anything was written. Entries with the same kind and canonical key
// replace each other.
func (i *Importer) ImportSynonyms(ctx context.Context, entries []*core.SynonymEntry) (int, error) {
	for _, entry := range entries {
		if err := core.ValidateSynonymEntry(entry); err != nil {
			return 0, err
		}
	}

	written, err := writeBatches(ctx, i, "synonyms", entries, func(ctx context.Context, chunk []*core.SynonymEntry) error {
		_, err := i.synonyms.AddSynonyms(ctx, chunk...)
		return err
	})
	if written > 0 && i.dict != nil {
		i.dict.Reset()
	}
	i.logger.Info("imported dictionary entries", "count", written)
	return written, err
}

// Summary counts the rows written by ImportSeed.
type Summary struct {
	Entries  int
	Synonyms int
}

// ImportSeed writes every catalog table and dictionary entry of seed.
// A seed catalog without a table name goes to defaultTable.
func (i *Importer) ImportSeed(ctx context.Context, seed *Seed, defaultTable string) (Summary, error) {
	var summary Summary
	for _, cat := range seed.Catalog {
		table := cat.Table
		if table == "" {
			table = defaultTable
		}
		n, err := i.ImportEntries(ctx, table, cat.Names)
		summary.Entries += n
		if err != nil {
			return summary, fmt.Errorf("table %s: %w", table, err)
		}
	}

	n, err := i.ImportSynonyms(ctx, seed.SynonymEntries())
	summary.Synonyms = n
	return summary, err
}

// writeBatches calls write for consecutive chunks of items and returns the
// number of items written before the first failure.
func writeBatches[T any](ctx context.Context, i *Importer, label string, items []T, write func(context.Context, []T) error) (int, error) {
	var tracker *batch.ProgressTracker
	if i.progress != nil {
		tracker = batch.NewProgressTracker(i.progress, label, len(items), i.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	written := 0
	for start := 0; start < len(items); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := min(start+i.batchSize, len(items))
		if err := write(ctx, items[start:end]); err != nil {
			return written, fmt.Errorf("write %s %d-%d: %w", label, start, end, err)
		}
		written += end - start
		if tracker != nil {
			tracker.Increment(end - start)
		}
	}
	return written, nil
}
