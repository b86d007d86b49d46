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


// Package mock provides function-field test doubles for the storage read interfaces.
package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// CatalogStore is a mock implementation of storage.CatalogStore.
// Each method calls its Func field if set; otherwise it serves Entries.
type CatalogStore struct {
	// SearchSubstringFunc is called by SearchSubstring if set.
	SearchSubstringFunc func(ctx context.Context, table, query string, limit int) ([]*core.CatalogEntry, error)

	// CountFunc is called by Count if set.
	CountFunc func(ctx context.Context, table string) (int, error)

	// FetchPageFunc is called by FetchPage if set.
	FetchPageFunc func(ctx context.Context, table string, offset, limit int) ([]*core.CatalogEntry, error)

	// Entries backs the default behavior, keyed by table.
	Entries map[string][]*core.CatalogEntry

	mu      sync.Mutex
	queries []string
}

var _ storage.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore creates a mock catalog serving the given entries from table.
func NewCatalogStore(table string, names ...string) *CatalogStore {
	entries := make([]*core.CatalogEntry, len(names))
	for i, name := range names {
		entries[i] = &core.CatalogEntry{Id: core.ID(i + 1), Name: name}
	}
	return &CatalogStore{Entries: map[string][]*core.CatalogEntry{table: entries}}
}

// SearchSubstring records the query and returns matching entries.
func (m *CatalogStore) SearchSubstring(ctx context.Context, table, query string, limit int) ([]*core.CatalogEntry, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchSubstringFunc != nil {
		return m.SearchSubstringFunc(ctx, table, query, limit)
	}

	needle := strings.ToLower(query)
	var results []*core.CatalogEntry
	for _, entry := range m.Entries[table] {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			results = append(results, entry)
		}
	}
	return results, nil
}

// Count returns the number of entries in table.
func (m *CatalogStore) Count(ctx context.Context, table string) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, table)
	}
	return len(m.Entries[table]), nil
}

// FetchPage returns a window of the entries in table.
func (m *CatalogStore) FetchPage(ctx context.Context, table string, offset, limit int) ([]*core.CatalogEntry, error) {
	if m.FetchPageFunc != nil {
		return m.FetchPageFunc(ctx, table, offset, limit)
	}
	return window(m.Entries[table], offset, limit), nil
}

// Queries returns every query passed to SearchSubstring, in call order.
func (m *CatalogStore) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// Reset clears the recorded queries and the Func overrides.
func (m *CatalogStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = nil
	m.SearchSubstringFunc = nil
	m.CountFunc = nil
	m.FetchPageFunc = nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
