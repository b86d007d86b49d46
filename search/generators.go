package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/dictionary"
)

// GeneratorID names a candidate generator.
type GeneratorID string

const (
	GeneratorExact    GeneratorID = "exact"
	GeneratorBlock    GeneratorID = "block"
	GeneratorSemantic GeneratorID = "semantic"
	GeneratorFuzzy    GeneratorID = "fuzzy"
)

// generatorOrder is the fixed merge order. Candidates are merged in this
// order whatever order the generators finish in, so equal scores keep the
// same ranking from call to call.
var generatorOrder = []GeneratorID{GeneratorExact, GeneratorBlock, GeneratorSemantic, GeneratorFuzzy}

// archetypeGenerators selects the generators run for each archetype.
// Entries follow generatorOrder.
var archetypeGenerators = map[core.Archetype][]GeneratorID{
	core.ArchetypeSimple:    {GeneratorExact, GeneratorSemantic, GeneratorFuzzy},
	core.ArchetypeTechnical: {GeneratorExact, GeneratorBlock, GeneratorSemantic},
	core.ArchetypeMixed:     {GeneratorExact, GeneratorBlock, GeneratorSemantic, GeneratorFuzzy},
}

// GeneratorsFor returns the generators run for archetype, in merge order.
// Unknown archetypes run every generator.
func GeneratorsFor(archetype core.Archetype) []GeneratorID {
	ids, ok := archetypeGenerators[archetype]
	if !ok {
		ids = generatorOrder
	}
	return append([]GeneratorID(nil), ids...)
}

// Score offsets added to the block weight per token kind.
const (
	articleBonus   = 1.0
	dimensionBonus = 0.5
	brandBonus     = 0.3
)

// fuzzyMinRunes is the shortest material word the fuzzy generator looks up.
const fuzzyMinRunes = 4

// generator produces candidates for a parsed query. Implementations are
// read-only and safe for concurrent use.
type generator interface {
	id() GeneratorID
	generate(ctx context.Context, q *core.Query) ([]*core.Candidate, error)
}

func newGenerators(lookup *catalogLookup, dict *dictionary.Dictionary, cfg *config.Config) map[GeneratorID]generator {
	return map[GeneratorID]generator{
		GeneratorExact:    &exactGenerator{lookup: lookup, weight: cfg.Weights.Exact, limit: cfg.Caps.Exact},
		GeneratorBlock:    &blockGenerator{lookup: lookup, weight: cfg.Weights.Block, limit: cfg.Caps.Block},
		GeneratorSemantic: &semanticGenerator{lookup: lookup, dict: dict, weight: cfg.Weights.Semantic, limit: cfg.Caps.Semantic},
		GeneratorFuzzy:    &fuzzyGenerator{lookup: lookup, weight: cfg.Weights.Fuzzy, limit: cfg.Caps.Fuzzy},
	}
}

func toCandidates(entries []*core.CatalogEntry, strategy core.Strategy, score float64, reason string) []*core.Candidate {
	out := make([]*core.Candidate, len(entries))
	for i, e := range entries {
		out[i] = &core.Candidate{
			EntryId:     e.Id,
			DisplayName: e.Name,
			Strategy:    strategy,
			BaseScore:   score,
			Reasons:     []string{reason},
		}
	}
	return out
}

// exactGenerator looks up the material block as a single phrase.
type exactGenerator struct {
	lookup *catalogLookup
	weight float64
	limit  int
}

func (g *exactGenerator) id() GeneratorID { return GeneratorExact }

func (g *exactGenerator) generate(ctx context.Context, q *core.Query) ([]*core.Candidate, error) {
	phrase := strings.Join(q.Blocks.Material, " ")
	if phrase == "" {
		return nil, nil
	}
	entries, err := g.lookup.find(ctx, phrase, g.limit)
	if err != nil {
		return nil, err
	}
	return toCandidates(entries, core.StrategyExact, g.weight, "exact match: "+phrase), nil
}

// blockGenerator looks up each article, dimension and brand token.
type blockGenerator struct {
	lookup *catalogLookup
	weight float64
	limit  int
}

func (g *blockGenerator) id() GeneratorID { return GeneratorBlock }

func (g *blockGenerator) generate(ctx context.Context, q *core.Query) ([]*core.Candidate, error) {
	groups := []struct {
		tokens   []string
		strategy core.Strategy
		bonus    float64
		label    string
	}{
		{q.Blocks.Article, core.StrategyBlockArticle, articleBonus, "article"},
		{q.Blocks.Dimension, core.StrategyBlockDimension, dimensionBonus, "dimension"},
		{q.Blocks.Brand, core.StrategyBlockBrand, brandBonus, "brand"},
	}

	var out []*core.Candidate
	for _, group := range groups {
		for _, token := range group.tokens {
			entries, err := g.lookup.find(ctx, token, g.limit)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", group.label, token, err)
			}
			reason := fmt.Sprintf("%s match: %s", group.label, token)
			out = append(out, toCandidates(entries, group.strategy, g.weight+group.bonus, reason)...)
		}
	}
	return out, nil
}

// semanticGenerator looks up dictionary expansions of each material word.
type semanticGenerator struct {
	lookup *catalogLookup
	dict   *dictionary.Dictionary
	weight float64
	limit  int
}

func (g *semanticGenerator) id() GeneratorID { return GeneratorSemantic }

func (g *semanticGenerator) generate(ctx context.Context, q *core.Query) ([]*core.Candidate, error) {
	var out []*core.Candidate
	for _, word := range q.Blocks.Material {
		for _, exp := range g.dict.Expansions(word) {
			if len(out) >= g.limit {
				return out, nil
			}
			entries, err := g.lookup.find(ctx, exp.Term, g.limit-len(out))
			if err != nil {
				return nil, fmt.Errorf("synonym %q: %w", exp.Term, err)
			}
			reason := fmt.Sprintf("synonym: %s → %s", exp.Word, exp.Term)
			out = append(out, toCandidates(entries, core.StrategySemantic, g.weight, reason)...)
		}
	}
	return out, nil
}

// fuzzyGenerator looks up each long material word on its own. It is a broad
// substring net, not an edit-distance search.
type fuzzyGenerator struct {
	lookup *catalogLookup
	weight float64
	limit  int
}

func (g *fuzzyGenerator) id() GeneratorID { return GeneratorFuzzy }

func (g *fuzzyGenerator) generate(ctx context.Context, q *core.Query) ([]*core.Candidate, error) {
	var out []*core.Candidate
	for _, word := range q.Blocks.Material {
		if utf8.RuneCountInString(word) < fuzzyMinRunes {
			continue
		}
		if len(out) >= g.limit {
			break
		}
		entries, err := g.lookup.find(ctx, word, g.limit-len(out))
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", word, err)
		}
		out = append(out, toCandidates(entries, core.StrategyFuzzy, g.weight, "partial match: "+word)...)
	}
	return out, nil
}
