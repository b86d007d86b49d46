package ingestion

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/catalogmatch/core"
)

// Seed is a small catalog with its dictionary, as read from a TOML file:
//
//	[[catalog]]
//	table = "materials"
//	names = ["Пеноплэкс Комфорт 50мм", "Кран шаровой BVR-R DN32"]
//
//	[[material_synonyms]]
//	canonical = "пеноплэкс"
//	aliases = ["xps", "экструдированный пенополистирол"]
//
//	[[units]]
//	canonical = "м³"
//	aliases = ["куб.м", "м3"]
type Seed struct {
	Catalog          []CatalogSeed `toml:"catalog"`
	MaterialSynonyms []SynonymSeed `toml:"material_synonyms"`
	Units            []SynonymSeed `toml:"units"`
}

// CatalogSeed lists entry names for one table.
type CatalogSeed struct {
	Table string   `toml:"table"`
	Names []string `toml:"names"`
}

// SynonymSeed is one dictionary key and its aliases.
type SynonymSeed struct {
	Canonical string   `toml:"canonical"`
	Aliases   []string `toml:"aliases"`
}

// LoadSeedFile reads and validates a seed file.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed decodes and validates a seed. Unknown keys are rejected.
func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	for _, entry := range seed.SynonymEntries() {
		if err := core.ValidateSynonymEntry(entry); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
		}
	}
	return &seed, nil
}

// SynonymEntries returns the material and unit entries of the seed.
func (s *Seed) SynonymEntries() []*core.SynonymEntry {
	entries := make([]*core.SynonymEntry, 0, len(s.MaterialSynonyms)+len(s.Units))
	for _, m := range s.MaterialSynonyms {
		entries = append(entries, &core.SynonymEntry{
			Kind:      core.SynonymKindMaterial,
			Canonical: m.Canonical,
			Aliases:   m.Aliases,
		})
	}
	for _, u := range s.Units {
		entries = append(entries, &core.SynonymEntry{
			Kind:      core.SynonymKindUnit,
			Canonical: u.Canonical,
			Aliases:   u.Aliases,
		})
	}
	return entries
}
