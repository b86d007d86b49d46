package query

import (
	"strings"
	"unicode"

	"github.com/poiesic/catalogmatch/core"
)

// features are the cheap signals the classifier inspects.
type features struct {
	shortQuery  bool
	article     bool
	dimension   bool
	brand       bool
	russianOnly bool
}

// Classify assigns an archetype from features of the original text:
// SIMPLE when short, Russian-only and free of article or brand patterns;
// otherwise TECHNICAL when any article, brand or dimension pattern is
// present; otherwise MIXED.
func (p *Parser) Classify(raw string) core.Archetype {
	f := p.extractFeatures(raw)
	switch {
	case f.shortQuery && !f.article && !f.brand && f.russianOnly:
		return core.ArchetypeSimple
	case f.article || f.brand || f.dimension:
		return core.ArchetypeTechnical
	default:
		return core.ArchetypeMixed
	}
}

// Classify uses the default parser.
func Classify(raw string) core.Archetype {
	return defaultParser.Classify(raw)
}

func (p *Parser) extractFeatures(raw string) features {
	return features{
		shortQuery:  len(strings.Fields(raw)) <= 3,
		article:     matchesAny(articlePatterns, raw),
		dimension:   matchesAny(dimensionPatterns, raw),
		brand:       p.hasBrand(raw),
		russianOnly: isRussianOnly(raw),
	}
}

func (p *Parser) hasBrand(raw string) bool {
	if quotedPattern.MatchString(raw) {
		return true
	}
	for _, field := range strings.Fields(raw) {
		if p.isKnownBrand(field) || isAllCapsWord(trimToken(field)) {
			return true
		}
	}
	return false
}

// isAllCapsWord reports whether s is at least three letters, all upper case.
func isAllCapsWord(s string) bool {
	if runeLen(s) < 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// isRussianOnly reports whether s has letters and all of them are Cyrillic.
func isRussianOnly(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.Is(unicode.Cyrillic, r) {
			return false
		}
		letters++
	}
	return letters > 0
}
