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


// Package search resolves free-text material names to catalog entries.
//
// A Resolver parses the query, picks the candidate generators for the
// query's archetype, runs them concurrently against the catalog store and
// ranks the merged candidates:
//   - exact: the material words as one phrase
//   - block: one lookup per article, dimension and brand token
//   - semantic: dictionary aliases of each material word
//   - fuzzy: each material word of four or more letters on its own
//
// Scores are unbounded and explainable: every RankedResult carries the
// reasons that contributed to it. An empty result list means no match.
// A Resolution with Degraded set means some generators failed; when all of
// them fail Resolve returns ErrPartialResult instead.
package search
