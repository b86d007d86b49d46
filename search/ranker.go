package search

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/catalogmatch/core"
)

// Ranking constants.
const (
	corroborationFactor = 0.5

	materialInNameBonus  = 2.0
	dimensionInNameBonus = 3.0
	articleInNameBonus   = 4.0
	brandInNameBonus     = 2.0
	multiStrategyBonus   = 1.0
	longNamePenalty      = 1.0
	longNameRunes        = 100

	simpleShortNameBonus = 0.5
	simpleShortNameRunes = 50
	technicalBlockBonus  = 1.5
)

// Rank merges candidates by entry ID, applies evidence and archetype
// bonuses and orders the results by score, highest first.
//
// The first candidate for an entry seeds its score; each later one adds half
// its base score. Scores are rounded to one decimal and equal scores keep the
// order in which entries were first seen. No candidates yields an empty,
// non-nil slice.
func Rank(candidates []*core.Candidate, q *core.Query) []*core.RankedResult {
	results := merge(candidates)
	for _, r := range results {
		applyEvidence(r, q.Blocks)
		applyArchetype(r, q.Archetype)
		r.FinalScore = math.Round(r.FinalScore*10) / 10
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

func merge(candidates []*core.Candidate) []*core.RankedResult {
	results := make([]*core.RankedResult, 0, len(candidates))
	byID := make(map[core.ID]*core.RankedResult, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		r, seen := byID[c.EntryId]
		if !seen {
			r = &core.RankedResult{
				EntryId:     c.EntryId,
				DisplayName: c.DisplayName,
				FinalScore:  c.BaseScore,
				Strategies:  []core.Strategy{c.Strategy},
				Reasons:     append([]string(nil), c.Reasons...),
			}
			byID[c.EntryId] = r
			results = append(results, r)
			continue
		}
		r.FinalScore += c.BaseScore * corroborationFactor
		r.Reasons = append(r.Reasons, c.Reasons...)
		if !r.HasStrategy(c.Strategy) {
			r.Strategies = append(r.Strategies, c.Strategy)
		}
	}
	return results
}

// applyEvidence adds bonuses for query tokens found in the display name.
func applyEvidence(r *core.RankedResult, blocks core.Blocks) {
	name := strings.ToLower(r.DisplayName)

	for _, word := range blocks.Material {
		if strings.Contains(name, word) {
			r.FinalScore += materialInNameBonus
			r.Reasons = append(r.Reasons, "material word in name: "+word)
			break
		}
	}
	for _, tok := range blocks.Dimension {
		if strings.Contains(name, strings.ToLower(tok)) {
			r.FinalScore += dimensionInNameBonus
			r.Reasons = append(r.Reasons, "dimension in name: "+tok)
		}
	}
	for _, tok := range blocks.Article {
		if strings.Contains(name, strings.ToLower(tok)) {
			r.FinalScore += articleInNameBonus
			r.Reasons = append(r.Reasons, "article in name: "+tok)
		}
	}
	for _, tok := range blocks.Brand {
		if strings.Contains(name, strings.ToLower(tok)) {
			r.FinalScore += brandInNameBonus
			r.Reasons = append(r.Reasons, "brand in name: "+tok)
		}
	}
	if n := len(r.Strategies); n > 1 {
		r.FinalScore += multiStrategyBonus
		r.Reasons = append(r.Reasons, fmt.Sprintf("corroborated by %d strategies", n))
	}
	if utf8.RuneCountInString(r.DisplayName) > longNameRunes {
		r.FinalScore -= longNamePenalty
		r.Reasons = append(r.Reasons, "long name")
	}
}

func applyArchetype(r *core.RankedResult, archetype core.Archetype) {
	switch archetype {
	case core.ArchetypeSimple:
		if utf8.RuneCountInString(r.DisplayName) < simpleShortNameRunes {
			r.FinalScore += simpleShortNameBonus
			r.Reasons = append(r.Reasons, "short name for simple query")
		}
	case core.ArchetypeTechnical:
		if r.HasStrategy(core.StrategyBlockArticle) || r.HasStrategy(core.StrategyBlockDimension) {
			r.FinalScore += technicalBlockBonus
			r.Reasons = append(r.Reasons, "technical block match")
		}
	}
}
