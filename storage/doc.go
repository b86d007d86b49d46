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


// Package storage provides the storage abstraction layer for catalogmatch.
//
// The resolution engine only ever reads from a catalog. It needs three
// capabilities, expressed by CatalogStore:
//
//   - SearchSubstring: case-insensitive "name contains" lookup with a result cap
//   - Count: number of rows in a table
//   - FetchPage: stable paged reads, used for bulk dictionary loading
//
// SynonymStore exposes the same count/page shape for the material synonym and
// unit dictionaries. CatalogRepository and SynonymRepository add the write
// operations used by bulk import.
//
// # Backends
//
//   - badger: embedded BadgerDB store implementing every interface
//   - postgres: read-only adapter for a hosted relational catalog
//   - mock: function-field test doubles for failure injection
//
// Use in tests with in-memory storage:
//
//	catalog, synonyms, backend, err := badger.NewMemoryStores()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All store implementations must be thread-safe. The resolver calls
// SearchSubstring from several goroutines at once during a single resolution.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// The resolver wraps every lookup in its own per-call timeout.
package storage
