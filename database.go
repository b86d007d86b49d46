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


package catalogmatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/dictionary"
	"github.com/poiesic/catalogmatch/ingestion"
	"github.com/poiesic/catalogmatch/search"
	"github.com/poiesic/catalogmatch/storage"
	"github.com/poiesic/catalogmatch/storage/badger"
	"github.com/poiesic/catalogmatch/storage/postgres"
)

// Database owns a catalog store and the dictionary shared by every
// resolver built from it.
type Database struct {
	backend     *badger.Backend
	catalogRepo storage.CatalogRepository
	synonymRepo storage.SynonymRepository
	pg          *postgres.Store

	catalog storage.CatalogStore
	dict    *dictionary.Dictionary
	cfg     *config.Config
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithConfig sets the engine configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []DatabaseOption) (*databaseOptions, error) {
	options := &databaseOptions{
		cfg:    config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.cfg.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// NewDatabase opens or creates a Badger catalog at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	synonymRepo, err := badger.NewSynonymRepository(backend)
	if err != nil {
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	dict, err := newDictionary(synonymRepo, options)
	if err != nil {
		synonymRepo.Close()
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:     backend,
		catalogRepo: catalogRepo,
		synonymRepo: synonymRepo,
		catalog:     catalogRepo,
		dict:        dict,
		cfg:         options.cfg,
		logger:      options.logger,
	}, nil
}

// OpenPostgres connects to a hosted catalog. The database is read-only:
// NewImporter fails with storage.ErrReadOnly.
func OpenPostgres(ctx context.Context, dsn string, opts ...DatabaseOption) (*Database, error) {
	options, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	pg, err := postgres.Open(ctx, dsn,
		postgres.WithLogger(options.logger),
		postgres.WithTables(options.cfg.Tables.Catalog))
	if err != nil {
		return nil, err
	}

	dict, err := newDictionary(pg, options)
	if err != nil {
		pg.Close()
		return nil, err
	}

	return &Database{
		pg:      pg,
		catalog: pg,
		dict:    dict,
		cfg:     options.cfg,
		logger:  options.logger,
	}, nil
}

func newDictionary(store storage.SynonymStore, options *databaseOptions) (*dictionary.Dictionary, error) {
	return dictionary.New(store,
		dictionary.WithLogger(options.logger),
		dictionary.WithPaging(options.cfg.Dictionary))
}

// Close releases the stores. Resolvers built from the database must be
// released first.
func (db *Database) Close() error {
	var errs []error
	if db.synonymRepo != nil {
		if err := db.synonymRepo.Close(); err != nil {
			db.logger.Error("error closing synonym repository", "err", err)
			errs = append(errs, err)
		}
	}
	if db.catalogRepo != nil {
		if err := db.catalogRepo.Close(); err != nil {
			db.logger.Error("error closing catalog repository", "err", err)
			errs = append(errs, err)
		}
	}
	if db.backend != nil {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	if db.pg != nil {
		if err := db.pg.Close(); err != nil {
			db.logger.Error("error closing postgres store", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (db *Database) Config() *config.Config {
	return db.cfg
}

func (db *Database) Dictionary() *dictionary.Dictionary {
	return db.dict
}

func (db *Database) CatalogStore() storage.CatalogStore {
	return db.catalog
}

// NewResolver builds a resolver over the catalog and the shared dictionary.
// Options override the database configuration and logger.
func (db *Database) NewResolver(opts ...search.ResolverOption) (*search.Resolver, error) {
	base := []search.ResolverOption{
		search.WithConfig(db.cfg),
		search.WithLogger(db.logger),
	}
	return search.NewResolver(db.catalog, db.dict, append(base, opts...)...)
}

// NewImporter builds an importer that resets the shared dictionary after
// synonym writes.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	if db.catalogRepo == nil || db.synonymRepo == nil {
		return nil, storage.ErrReadOnly
	}
	base := []ingestion.Option{
		ingestion.WithDictionary(db.dict),
		ingestion.WithLogger(db.logger),
	}
	return ingestion.NewImporter(db.catalogRepo, db.synonymRepo, append(base, opts...)...)
}

// Stats describes the catalog table and the loaded dictionary.
type Stats struct {
	Table      string
	Entries    int
	Dictionary dictionary.Stats
}

// Stats loads the dictionary if needed and counts the configured table.
func (db *Database) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Table: db.cfg.Tables.Catalog}
	if err := db.dict.Initialize(ctx); err != nil {
		return stats, err
	}
	stats.Dictionary, _ = db.dict.Stats()

	n, err := db.catalog.Count(ctx, stats.Table)
	if err != nil {
		return stats, err
	}
	stats.Entries = n
	return stats, nil
}
