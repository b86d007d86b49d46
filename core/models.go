package core

import (
	"encoding/binary"
	"slices"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CatalogEntry is a single row of a reference catalog (supplier product,
// internal material, unit of measure). Entries are owned by the store and are
// read-only from the engine's point of view.
type CatalogEntry struct {
	Id   ID
	Name string
}

// SynonymKind identifies which dictionary a SynonymEntry belongs to.
type SynonymKind int

const (
	// SynonymKindMaterial maps material words to alternative spellings and names.
	SynonymKindMaterial SynonymKind = iota + 1
	// SynonymKindUnit maps canonical units of measure to their aliases.
	SynonymKindUnit
)

func (k SynonymKind) String() string {
	switch k {
	case SynonymKindMaterial:
		return "material"
	case SynonymKindUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// SynonymEntry maps a canonical key to its set of aliases.
type SynonymEntry struct {
	Id        ID
	Kind      SynonymKind
	Canonical string
	Aliases   []string
}

// Key returns the string used to derive the entry's content ID.
func (s *SynonymEntry) Key() string {
	return s.Kind.String() + ":" + s.Canonical
}

// Archetype is the coarse classification of a query.
type Archetype int

const (
	ArchetypeSimple Archetype = iota + 1
	ArchetypeTechnical
	ArchetypeMixed
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeSimple:
		return "SIMPLE"
	case ArchetypeTechnical:
		return "TECHNICAL"
	case ArchetypeMixed:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// BlockKind is the type of a token block.
type BlockKind string

const (
	BlockMaterial  BlockKind = "material"
	BlockDimension BlockKind = "dimension"
	BlockArticle   BlockKind = "article"
	BlockBrand     BlockKind = "brand"
)

// Blocks holds the typed token groups extracted from a query.
// Dimension tokens are lowercased, article and brand tokens uppercased,
// material tokens lowercased. Order within a block is extraction order.
type Blocks struct {
	Material  []string
	Dimension []string
	Article   []string
	Brand     []string
}

// Tokens returns the tokens of the given kind.
func (b *Blocks) Tokens(kind BlockKind) []string {
	switch kind {
	case BlockMaterial:
		return b.Material
	case BlockDimension:
		return b.Dimension
	case BlockArticle:
		return b.Article
	case BlockBrand:
		return b.Brand
	default:
		return nil
	}
}

// Empty reports whether no block holds any token.
func (b *Blocks) Empty() bool {
	return len(b.Material) == 0 && len(b.Dimension) == 0 && len(b.Article) == 0 && len(b.Brand) == 0
}

// Query is a parsed resolution request. It is immutable once built.
type Query struct {
	Raw        string
	Normalized string
	Archetype  Archetype
	Blocks     Blocks
}

// Strategy tags the generator path that produced a candidate.
type Strategy string

const (
	StrategyExact          Strategy = "exact"
	StrategyBlockArticle   Strategy = "block_article"
	StrategyBlockDimension Strategy = "block_dimension"
	StrategyBlockBrand     Strategy = "block_brand"
	StrategySemantic       Strategy = "semantic"
	StrategyFuzzy          Strategy = "fuzzy"
)

// Candidate is one generator's proposed match.
type Candidate struct {
	EntryId     ID
	DisplayName string
	Strategy    Strategy
	BaseScore   float64
	Reasons     []string
}

// RankedResult is the merged and scored match for a single catalog entry.
// Scores are unbounded positive values; only their relative order matters.
type RankedResult struct {
	EntryId     ID
	DisplayName string
	FinalScore  float64
	Strategies  []Strategy
	Reasons     []string
}

// HasStrategy reports whether the result was produced by the given strategy.
func (r *RankedResult) HasStrategy(s Strategy) bool {
	return slices.Contains(r.Strategies, s)
}

// ConfidenceTier describes how a unit of measure was matched.
type ConfidenceTier int

const (
	TierNone ConfidenceTier = iota
	TierExact
	TierSynonym
	TierFuzzy
)

func (t ConfidenceTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSynonym:
		return "synonym"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// UnitMatch is the outcome of resolving a unit-of-measure string.
// Unit is empty when Tier is TierNone.
type UnitMatch struct {
	Unit         string
	Tier         ConfidenceTier
	OriginalText string
}

// Matched reports whether a canonical unit was found.
func (m *UnitMatch) Matched() bool {
	return m.Tier != TierNone
}
