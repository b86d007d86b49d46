package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpansions(t *testing.T) {
	d := newLoaded(t,
		material("Пеноплэкс", "XPS", "экструдированный пенополистирол"),
		material("гипсокартон", "гкл", "ГКЛ", "drywall"),
	)

	t.Run("canonical key expands to aliases", func(t *testing.T) {
		got := d.Expansions("пеноплэкс")
		assert.Equal(t, []Expansion{
			{Word: "пеноплэкс", Canonical: "пеноплэкс", Term: "xps"},
			{Word: "пеноплэкс", Canonical: "пеноплэкс", Term: "экструдированный пенополистирол"},
		}, got)
	})

	t.Run("alias expands to canonical and siblings", func(t *testing.T) {
		got := d.Expansions("гкл")
		assert.Equal(t, []Expansion{
			{Word: "гкл", Canonical: "гипсокартон", Term: "гипсокартон"},
			{Word: "гкл", Canonical: "гипсокартон", Term: "drywall"},
		}, got)
	})

	t.Run("unknown word", func(t *testing.T) {
		assert.Empty(t, d.Expansions("кирпич"))
		assert.Empty(t, d.Expansions(""))
	})
}

func TestExpansions_NotInitialized(t *testing.T) {
	d, err := New(newLoaded(t, material("гкл", "гипсокартон")).store)
	assert.NoError(t, err)
	assert.Empty(t, d.Expansions("гкл"))
}
