package query

import (
	"regexp"
	"strings"

	"github.com/poiesic/catalogmatch/core"
)

// Tokenize splits raw into typed blocks. Extraction order is fixed:
// dimensions, then articles, then brands, each working on what the previous
// step left behind. The remainder, normalized, forms the material block.
// A token is never placed in more than one block.
func (p *Parser) Tokenize(raw string) core.Blocks {
	var blocks core.Blocks
	residual := raw

	blocks.Dimension, residual = extract(dimensionPatterns, residual, strings.ToLower)
	blocks.Article, residual = extract(articlePatterns, residual, strings.ToUpper)
	blocks.Brand, residual = p.extractBrands(residual)
	blocks.Material = materialTokens(residual)

	return blocks
}

// Tokenize uses the default parser.
func Tokenize(raw string) core.Blocks {
	return defaultParser.Tokenize(raw)
}

// extract pulls every match of each pattern out of text in order, replacing
// matches with a space. Tokens are transformed by fold and deduplicated.
func extract(patterns []*regexp.Regexp, text string, fold func(string) string) ([]string, string) {
	var tokens []string
	seen := make(map[string]struct{})
	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			tok := fold(m)
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
		text = re.ReplaceAllLiteralString(text, " ")
	}
	return tokens, text
}

// extractBrands pulls quoted substrings and known brand words. Any other
// word equal to an extracted brand is removed from the residual as well.
func (p *Parser) extractBrands(text string) ([]string, string) {
	var brands []string
	seen := make(map[string]struct{})
	add := func(b string) {
		b = strings.ToUpper(strings.TrimSpace(b))
		if b == "" {
			return
		}
		if _, dup := seen[b]; dup {
			return
		}
		seen[b] = struct{}{}
		brands = append(brands, b)
	}

	for _, m := range quotedPattern.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			add(m[1])
		} else {
			add(m[2])
		}
	}
	text = quotedPattern.ReplaceAllLiteralString(text, " ")

	fields := strings.Fields(text)
	for _, field := range fields {
		if p.isKnownBrand(field) {
			add(trimToken(field))
		}
	}
	if len(brands) == 0 {
		return nil, text
	}

	kept := fields[:0]
	for _, field := range fields {
		if _, isBrand := seen[strings.ToUpper(trimToken(field))]; !isBrand {
			kept = append(kept, field)
		}
	}
	return brands, strings.Join(kept, " ")
}

// materialTokens normalizes the residual and keeps words of at least two runes.
func materialTokens(residual string) []string {
	var words []string
	for _, w := range strings.Fields(Normalize(residual)) {
		if runeLen(w) >= minMaterialRunes {
			words = append(words, w)
		}
	}
	return words
}
