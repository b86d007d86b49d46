package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases text and replaces every character other than ASCII
// word characters, Cyrillic letters and whitespace with a space, then
// collapses runs of whitespace. It is total and idempotent.
func Normalize(text string) string {
	// A Caser keeps state between calls and is not safe for concurrent use.
	lowered := cases.Lower(language.Russian).String(text)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		if !isWordRune(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r):
		return true
	}
	return false
}
