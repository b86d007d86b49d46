package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"lowercases cyrillic", "Пеноплэкс КОМФОРТ", "пеноплэкс комфорт"},
		{"strips punctuation", "Кран шаровой, BVR-R (DN32)!", "кран шаровой bvr r dn32"},
		{"collapses whitespace", "  труба   ппр  ", "труба ппр"},
		{"keeps underscore", "ABC_12", "abc_12"},
		{"drops superscripts", "м²", "м"},
		{"drops quotes", "«Момент»", "момент"},
		{"keeps yo", "Ёлка", "ёлка"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Пеноплэкс Комфорт 50мм",
		"Кран шаровой резьбовой BVR-R DN32 065B8310R Ридан",
		"Клей «Момент» 125мл",
		"İstanbul ΣΊΣΥΦΟΣ straße",
		"K Kelvin ǅ digraph",
		"м² м³ куб.м 10×20",
		"\u0000\u200b\ufeff tab\there",
		"日本語 テキスト 123",
		string([]byte{0xff, 0xfe, 'a'}),
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
