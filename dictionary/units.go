package dictionary

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/poiesic/catalogmatch/core"
)

// FindUnit resolves free text to a canonical unit of measure. Tiers are
// tried in order: exact canonical name, alias, fuzzy (notation variations,
// then bounded edit distance), none.
func (d *Dictionary) FindUnit(text string) *core.UnitMatch {
	match := &core.UnitMatch{OriginalText: text}
	idx := d.current()
	key := unitKey(text)
	if idx == nil || key == "" {
		return match
	}

	if unit, ok := idx.unitCanonicals[key]; ok {
		match.Unit, match.Tier = unit, core.TierExact
		return match
	}
	if unit, ok := idx.unitAliases[key]; ok {
		match.Unit, match.Tier = unit, core.TierSynonym
		return match
	}
	if unit, ok := idx.matchVariation(key); ok {
		match.Unit, match.Tier = unit, core.TierFuzzy
		return match
	}
	if unit, ok := idx.matchEditDistance(key); ok {
		match.Unit, match.Tier = unit, core.TierFuzzy
		return match
	}
	return match
}

// FindUnits resolves each text in order. The result has one entry per input.
func (d *Dictionary) FindUnits(texts []string) []*core.UnitMatch {
	out := make([]*core.UnitMatch, len(texts))
	for i, text := range texts {
		out[i] = d.FindUnit(text)
	}
	return out
}

func (idx *index) matchVariation(key string) (string, bool) {
	if unit, ok := idx.unitVariants[key]; ok {
		return unit, true
	}
	for _, v := range variations(key) {
		if unit, ok := idx.unitCanonicals[v]; ok {
			return unit, true
		}
		if unit, ok := idx.unitAliases[v]; ok {
			return unit, true
		}
		if unit, ok := idx.unitVariants[v]; ok {
			return unit, true
		}
	}
	return "", false
}

// matchEditDistance picks the closest canonical name or alias whose
// Levenshtein distance d from key satisfies d <= max(1, floor(min(la, lb)*0.2))
// and |la - lb| <= 2, measured in runes. Ties go to the first key in sorted order.
func (idx *index) matchEditDistance(key string) (string, bool) {
	la := utf8.RuneCountInString(key)
	best, bestDist := "", -1
	for _, candidate := range idx.unitKeys {
		lb := utf8.RuneCountInString(candidate)
		if abs(la-lb) > 2 {
			continue
		}
		limit := max(1, min(la, lb)/5)
		dist := edlib.LevenshteinDistance(key, candidate)
		if dist > limit {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	if bestDist < 0 {
		return "", false
	}
	if unit, ok := idx.unitCanonicals[best]; ok {
		return unit, true
	}
	return idx.unitAliases[best], true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Notation pairs that name the same unit. Each side is rewritten to the other.
var notationPairs = [][2]string{
	{"кв.м", "м2"},
	{"квм", "м2"},
	{"куб.м", "м3"},
	{"кубм", "м3"},
	{"²", "2"},
	{"³", "3"},
	{"sq.m", "м2"},
	{"cu.m", "м3"},
}

// Latin letters that look like Cyrillic ones and are commonly typed by mistake.
var latinLookalikes = strings.NewReplacer(
	"a", "а", "c", "с", "e", "е", "k", "к", "m", "м",
	"o", "о", "p", "р", "t", "т", "x", "х", "y", "у",
)

// Russian inflection endings and their replacements, longest first.
var suffixSwaps = [][2]string{
	{"ов", ""},
	{"ей", "ь"},
	{"ам", ""},
	{"ах", ""},
	{"а", ""},
	{"ы", ""},
	{"и", ""},
	{"у", ""},
	{"я", "ь"},
	{"ь", ""},
}

// minStemRunes keeps suffix swaps from reducing short units to nothing.
const minStemRunes = 3

// variationDepth bounds how many rewrites are chained.
const variationDepth = 2

// variations returns spellings of key reachable through notation,
// punctuation, lookalike and inflection rewrites, excluding key itself.
// The order is deterministic.
func variations(key string) []string {
	seen := map[string]struct{}{key: {}}
	var out []string
	frontier := []string{key}
	for depth := 0; depth < variationDepth; depth++ {
		var next []string
		for _, s := range frontier {
			for _, v := range rewrite(s) {
				if _, dup := seen[v]; dup || v == "" {
					continue
				}
				seen[v] = struct{}{}
				out = append(out, v)
				next = append(next, v)
			}
		}
		frontier = next
	}
	return out
}

// rewrite applies each single rewrite rule to s.
func rewrite(s string) []string {
	var out []string

	if strings.ContainsAny(s, ".-/") {
		out = append(out, strings.NewReplacer(".", "", "-", "", "/", "").Replace(s))
	}

	for _, pair := range notationPairs {
		if strings.Contains(s, pair[0]) {
			out = append(out, strings.ReplaceAll(s, pair[0], pair[1]))
		}
		if strings.Contains(s, pair[1]) {
			out = append(out, strings.ReplaceAll(s, pair[1], pair[0]))
		}
	}

	if cyr := latinLookalikes.Replace(s); cyr != s {
		out = append(out, cyr)
	}

	for _, swap := range suffixSwaps {
		stem, ok := strings.CutSuffix(s, swap[0])
		if !ok || utf8.RuneCountInString(stem) < minStemRunes-1 {
			continue
		}
		if utf8.RuneCountInString(stem+swap[1]) < minStemRunes {
			continue
		}
		out = append(out, stem+swap[1])
		break
	}

	return out
}
