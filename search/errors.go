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


package search

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogRequired is returned when a catalog store is not provided.
	ErrCatalogRequired = errors.New("catalog store required")

	// ErrDictionaryRequired is returned when a dictionary is not provided.
	ErrDictionaryRequired = errors.New("dictionary required")

	// ErrConfiguration is returned when the engine cannot start a resolution,
	// for example because the dictionary could not be loaded.
	ErrConfiguration = errors.New("resolution engine not configured")

	// ErrPartialResult is returned when every generator for the query's
	// archetype failed. It wraps each *GeneratorError.
	ErrPartialResult = errors.New("all candidate generators failed")
)

// GeneratorError records the failure of one candidate generator.
type GeneratorError struct {
	Generator GeneratorID
	Err       error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generator %s: %v", e.Generator, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}
