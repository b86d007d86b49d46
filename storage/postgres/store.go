// Package postgres reads the hosted relational catalog through database/sql
// and the lib/pq driver. The store is read-only: catalog maintenance happens
// in the application that owns the database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// DefaultSynonymTable holds material and unit synonyms with columns
// (id bigint, kind text, canonical text, aliases text[]).
const DefaultSynonymTable = "synonyms"

// Store implements storage.CatalogStore and storage.SynonymStore over PostgreSQL.
// Catalog tables are expected to expose (id bigint, name text).
type Store struct {
	db           *sql.DB
	ownsDB       bool
	synonymTable string
	tables       map[string]struct{}
	logger       *slog.Logger
}

var (
	_ storage.CatalogStore = (*Store)(nil)
	_ storage.SynonymStore = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSynonymTable overrides DefaultSynonymTable.
func WithSynonymTable(table string) Option {
	return func(s *Store) error {
		if strings.TrimSpace(table) == "" {
			return fmt.Errorf("%w: empty synonym table", storage.ErrInvalidQuery)
		}
		s.synonymTable = table
		return nil
	}
}

// WithTables restricts catalog lookups to the named tables.
// Other table names fail with storage.ErrUnknownTable.
func WithTables(tables ...string) Option {
	return func(s *Store) error {
		for _, t := range tables {
			s.tables[t] = struct{}{}
		}
		return nil
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s, err := New(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// New wraps an existing connection pool. Close leaves db open.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres: db required")
	}
	s := &Store{
		db:           db,
		synonymTable: DefaultSynonymTable,
		tables:       make(map[string]struct{}),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close closes the connection pool when the store opened it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func (s *Store) checkTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: empty table name", storage.ErrInvalidQuery)
	}
	if len(s.tables) == 0 {
		return nil
	}
	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrUnknownTable, table)
	}
	return nil
}

// SearchSubstring runs a case-insensitive ILIKE containment query.
func (s *Store) SearchSubstring(ctx context.Context, table, query string, limit int) ([]*core.CatalogEntry, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, fmt.Errorf("%w: query %q limit %d", storage.ErrInvalidQuery, query, limit)
	}

	rows, err := s.db.QueryContext(ctx, searchQuery(table), containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", table, err)
	}
	return scanEntries(rows)
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if err := s.checkTable(table); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, countQuery(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// FetchPage returns rows of table ordered by id.
func (s *Store) FetchPage(ctx context.Context, table string, offset, limit int) ([]*core.CatalogEntry, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", storage.ErrInvalidQuery, offset, limit)
	}
	rows, err := s.db.QueryContext(ctx, pageQuery(table), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	return scanEntries(rows)
}

// CountSynonyms returns the number of synonym rows of kind.
func (s *Store) CountSynonyms(ctx context.Context, kind core.SynonymKind) (int, error) {
	if err := core.ValidateSynonymKind(kind); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, synonymCountQuery(s.synonymTable), kind.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count synonyms: %w", err)
	}
	return n, nil
}

// FetchSynonyms returns synonym rows of kind ordered by id.
func (s *Store) FetchSynonyms(ctx context.Context, kind core.SynonymKind, offset, limit int) ([]*core.SynonymEntry, error) {
	if err := core.ValidateSynonymKind(kind); err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", storage.ErrInvalidQuery, offset, limit)
	}

	rows, err := s.db.QueryContext(ctx, synonymPageQuery(s.synonymTable), kind.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch synonyms: %w", err)
	}
	defer rows.Close()

	var results []*core.SynonymEntry
	for rows.Next() {
		var (
			id        int64
			canonical string
			aliases   []string
		)
		if err := rows.Scan(&id, &canonical, pq.Array(&aliases)); err != nil {
			return nil, fmt.Errorf("scan synonym: %w", err)
		}
		entry := &core.SynonymEntry{
			Id:        core.ID(id),
			Kind:      kind,
			Canonical: canonical,
			Aliases:   compactAliases(aliases),
		}
		if err := core.ValidateSynonymEntry(entry); err != nil {
			s.logger.Warn("skipping invalid synonym row", "id", id, "error", err)
			continue
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]*core.CatalogEntry, error) {
	defer rows.Close()
	var results []*core.CatalogEntry
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		results = append(results, &core.CatalogEntry{Id: core.ID(id), Name: name})
	}
	return results, rows.Err()
}

// compactAliases drops NULL or blank array elements.
func compactAliases(aliases []string) []string {
	out := aliases[:0]
	for _, a := range aliases {
		if strings.TrimSpace(a) != "" {
			out = append(out, a)
		}
	}
	return out
}
