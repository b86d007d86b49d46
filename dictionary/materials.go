package dictionary

// Expansion is one alternative spelling of a material word.
type Expansion struct {
	// Word is the material word that was expanded.
	Word string
	// Canonical is the dictionary key the word belongs to.
	Canonical string
	// Term is the text to look up in the catalog.
	Term string
}

// Expansions returns the alternative terms for a normalized material word.
// A canonical key expands to its aliases. An alias expands to its canonical
// key and its sibling aliases. Unknown words, and every word before the
// dictionary is loaded, expand to nothing.
func (d *Dictionary) Expansions(word string) []Expansion {
	idx := d.current()
	if idx == nil || word == "" {
		return nil
	}

	canonical := word
	aliases, ok := idx.materials[word]
	if !ok {
		canonical, ok = idx.materialAliases[word]
		if !ok {
			return nil
		}
		aliases = append([]string{canonical}, idx.materials[canonical]...)
	}

	out := make([]Expansion, 0, len(aliases))
	for _, term := range aliases {
		if term == word {
			continue
		}
		out = append(out, Expansion{Word: word, Canonical: canonical, Term: term})
	}
	return out
}
