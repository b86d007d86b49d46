package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/poiesic/catalogmatch/batch"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/query"
)

// index is an immutable snapshot of the dictionary.
type index struct {
	// materials maps a normalized canonical key to its normalized aliases.
	materials map[string][]string
	// materialAliases maps a normalized alias back to its canonical key.
	materialAliases map[string]string

	// unitCanonicals maps a unit key of a canonical name to the canonical name.
	unitCanonicals map[string]string
	// unitAliases maps a unit key of an alias to the canonical name.
	unitAliases map[string]string
	// unitVariants maps every generated variation of a canonical name or
	// alias to the canonical name.
	unitVariants map[string]string
	// unitKeys lists canonical and alias keys in sorted order for the
	// edit-distance scan.
	unitKeys []string

	stats Stats
}

func newIndex() *index {
	return &index{
		materials:       make(map[string][]string),
		materialAliases: make(map[string]string),
		unitCanonicals:  make(map[string]string),
		unitAliases:     make(map[string]string),
		unitVariants:    make(map[string]string),
	}
}

// load reads both synonym kinds from the store and builds a fresh index.
func (d *Dictionary) load(ctx context.Context) (*index, error) {
	idx := newIndex()
	digest := xxhash.New()

	for _, kind := range []core.SynonymKind{core.SynonymKindMaterial, core.SynonymKindUnit} {
		pager := batch.NewPager(
			func(ctx context.Context) (int, error) {
				return d.store.CountSynonyms(ctx, kind)
			},
			func(ctx context.Context, offset, limit int) ([]*core.SynonymEntry, error) {
				return d.store.FetchSynonyms(ctx, kind, offset, limit)
			},
			batch.WithPageSize(d.paging.PageSize),
			batch.WithRetry(d.paging.MaxRetries, d.paging.RetryDelay),
		)
		err := pager.ForEach(ctx, func(entries []*core.SynonymEntry) error {
			for _, entry := range entries {
				hashEntry(digest, entry)
				if kind == core.SynonymKindMaterial {
					idx.addMaterial(entry)
				} else {
					idx.addUnit(entry)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s synonyms: %w", ErrLoadFailed, kind, err)
		}
	}

	idx.finish()
	idx.stats.Fingerprint = digest.Sum64()
	idx.stats.LoadedAt = time.Now()
	return idx, nil
}

func hashEntry(digest *xxhash.Digest, entry *core.SynonymEntry) {
	digest.WriteString(entry.Kind.String())
	digest.WriteString("\x00")
	digest.WriteString(entry.Canonical)
	for _, alias := range entry.Aliases {
		digest.WriteString("\x01")
		digest.WriteString(alias)
	}
	digest.WriteString("\x02")
}

func (idx *index) addMaterial(entry *core.SynonymEntry) {
	canonical := query.Normalize(entry.Canonical)
	if canonical == "" {
		return
	}
	if _, exists := idx.materials[canonical]; !exists {
		idx.stats.MaterialKeys++
	}

	aliases := idx.materials[canonical]
	for _, raw := range entry.Aliases {
		alias := query.Normalize(raw)
		if alias == "" || alias == canonical || contains(aliases, alias) {
			continue
		}
		aliases = append(aliases, alias)
		if _, taken := idx.materialAliases[alias]; !taken {
			idx.materialAliases[alias] = canonical
		}
		idx.stats.MaterialAliases++
	}
	idx.materials[canonical] = aliases
}

func (idx *index) addUnit(entry *core.SynonymEntry) {
	canonical := strings.TrimSpace(entry.Canonical)
	key := unitKey(canonical)
	if key == "" {
		return
	}
	if _, exists := idx.unitCanonicals[key]; !exists {
		idx.unitCanonicals[key] = canonical
		idx.stats.Units++
	}
	idx.addVariants(key, canonical)

	for _, raw := range entry.Aliases {
		alias := unitKey(raw)
		if alias == "" {
			continue
		}
		if _, taken := idx.unitAliases[alias]; !taken {
			idx.unitAliases[alias] = canonical
			idx.stats.UnitAliases++
		}
		idx.addVariants(alias, canonical)
	}
}

func (idx *index) addVariants(key, canonical string) {
	for _, v := range variations(key) {
		if _, taken := idx.unitVariants[v]; !taken {
			idx.unitVariants[v] = canonical
		}
	}
}

// finish builds the sorted key list used by the edit-distance scan.
func (idx *index) finish() {
	keys := make([]string, 0, len(idx.unitCanonicals)+len(idx.unitAliases))
	for k := range idx.unitCanonicals {
		keys = append(keys, k)
	}
	for k := range idx.unitAliases {
		if _, dup := idx.unitCanonicals[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	idx.unitKeys = keys
}

// unitKey lowercases s and removes all whitespace. Punctuation is kept so
// "куб.м" and "кубм" stay distinct until the variation step.
func unitKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
