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


package core

import (
	"fmt"
	"strings"
)

// ValidateCatalogEntry validates a CatalogEntry according to domain rules.
//
// Validation rules:
//   - Name must contain at least one non-whitespace character
//
// NOT validated:
//   - ID (0 is valid, the store assigns one from a sequence)
//   - Duplicate names (catalogs legitimately contain them)
func ValidateCatalogEntry(entry *CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidCatalogEntry)
	}

	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrEmptyName)
	}

	return nil
}

// ValidateSynonymEntry validates a SynonymEntry according to domain rules.
//
// Validation rules:
//   - Kind must be material or unit
//   - Canonical must not be blank
//   - Every alias must not be blank
//
// An entry without aliases is valid: a unit with no synonyms still takes part
// in exact and fuzzy matching.
func ValidateSynonymEntry(entry *SynonymEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidSynonymEntry)
	}

	if err := ValidateSynonymKind(entry.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSynonymEntry, err)
	}

	if strings.TrimSpace(entry.Canonical) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSynonymEntry, ErrEmptyCanonical)
	}

	for i, alias := range entry.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%w: %w at index %d", ErrInvalidSynonymEntry, ErrEmptyAlias, i)
		}
	}

	return nil
}

// ValidateSynonymKind validates that a SynonymKind has a valid value.
func ValidateSynonymKind(kind SynonymKind) error {
	if kind != SynonymKindMaterial && kind != SynonymKindUnit {
		return fmt.Errorf("%w: value %d", ErrInvalidSynonymKind, kind)
	}
	return nil
}
