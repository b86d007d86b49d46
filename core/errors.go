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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCatalogEntry indicates a CatalogEntry failed validation.
	ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

	// ErrInvalidSynonymEntry indicates a SynonymEntry failed validation.
	ErrInvalidSynonymEntry = errors.New("invalid synonym entry")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCanonical indicates the Canonical field is empty.
	ErrEmptyCanonical = errors.New("canonical key cannot be empty")

	// ErrEmptyAlias indicates an alias is empty.
	ErrEmptyAlias = errors.New("alias cannot be empty")

	// ErrInvalidSynonymKind indicates an invalid SynonymKind value.
	ErrInvalidSynonymKind = errors.New("invalid synonym kind")
)
