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


// Package batch provides the bulk-transfer plumbing shared by dictionary
// loading and catalog import: paged iteration over a count/fetch store API,
// retry with exponential backoff, and progress reporting.
//
// A typical dictionary load:
//
//	pages := batch.NewPager(
//	    func(ctx context.Context) (int, error) { return store.CountSynonyms(ctx, kind) },
//	    func(ctx context.Context, offset, limit int) ([]*core.SynonymEntry, error) {
//	        return store.FetchSynonyms(ctx, kind, offset, limit)
//	    },
//	    batch.WithPageSize(500),
//	    batch.WithRetry(3, 200*time.Millisecond),
//	)
//	err := pages.ForEach(ctx, func(entries []*core.SynonymEntry) error { ... })
package batch
