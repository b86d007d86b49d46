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


// Package query turns raw catalog search text into a classified, blocked
// core.Query. Every function here is total: malformed input yields empty
// blocks, never an error.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/catalogmatch/core"
)

// minMaterialRunes is the shortest material token kept.
const minMaterialRunes = 2

// Parser classifies and tokenizes queries against a known-brand list.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	brands map[string]struct{}
}

var defaultParser = NewParser()

// NewParser creates a Parser recognizing DefaultBrands plus extra.
func NewParser(extra ...string) *Parser {
	p := &Parser{brands: make(map[string]struct{}, len(DefaultBrands)+len(extra))}
	for _, b := range DefaultBrands {
		p.brands[strings.ToUpper(b)] = struct{}{}
	}
	for _, b := range extra {
		if b = strings.TrimSpace(b); b != "" {
			p.brands[strings.ToUpper(b)] = struct{}{}
		}
	}
	return p
}

// Parse builds a Query with the default parser.
func Parse(raw string) *core.Query {
	return defaultParser.Parse(raw)
}

// Parse normalizes, classifies and tokenizes raw.
// An empty normalized form yields a Query with empty blocks.
func (p *Parser) Parse(raw string) *core.Query {
	q := &core.Query{
		Raw:        raw,
		Normalized: Normalize(raw),
	}
	if q.Normalized == "" {
		return q
	}
	q.Archetype = p.Classify(raw)
	q.Blocks = p.Tokenize(raw)
	return q
}

// trimToken strips leading and trailing characters that are neither letters
// nor digits.
func trimToken(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func (p *Parser) isKnownBrand(token string) bool {
	_, ok := p.brands[strings.ToUpper(trimToken(token))]
	return ok
}
