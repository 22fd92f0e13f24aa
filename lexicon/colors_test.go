package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"Black":        Black,
		"charcoal":     Gray,
		"Smoky":        Gray,
		"light blue":   Blue,
		"Navy":         Blue,
		"off-white":    White,
		"Crème":        White,
		"reddish":      Red,
		"bluish":       Blue,
		"purplish":     Purple,
		"wood-brown":   Brown,
		"dusty rose":   Pink,
		"burnt orange": Orange,
		"burgundy":     Red,
		"camel":        Brown,
		"cherry-red":   Red,
	}
	for raw, want := range cases {
		got, ok := NormalizeColor(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeColorUnknown(t *testing.T) {
	for _, raw := range []string{"", "pale", "sparkly", "123", "dark", "tailored", "layered"} {
		_, ok := NormalizeColor(raw)
		assert.False(t, ok, raw)
	}
}

func TestNormalizeColorIdempotent(t *testing.T) {
	for _, raw := range []string{"charcoal", "light pink", "mustard", "olive", "greyish", "navy", "ivory"} {
		first, ok := NormalizeColor(raw)
		require.True(t, ok, raw)
		second, ok := NormalizeColor(first)
		require.True(t, ok, raw)
		assert.Equal(t, first, second, raw)
	}
	for _, base := range BaseColors {
		got, ok := NormalizeColor(base)
		require.True(t, ok)
		assert.Equal(t, base, got)
	}
}

func TestExpandFamilyContainsBase(t *testing.T) {
	for _, base := range BaseColors {
		assert.True(t, ExpandFamily(base).Has(base), base)
	}
	assert.True(t, ExpandFamily(Gray).Has("slate"))
	assert.Equal(t, NewSet("teal-ish"), ExpandFamily("teal-ish"))
}

func TestExpandFamilyReturnsCopy(t *testing.T) {
	family := ExpandFamily(Red)
	family.Add("lime")
	assert.False(t, ExpandFamily(Red).Has("lime"))
}

func TestColorsMatch(t *testing.T) {
	assert.True(t, ColorsMatch([]string{"Maroon"}, ExpandFamily(Red)))
	assert.True(t, ColorsMatch([]string{"dark red"}, NewSet(Red)))
	assert.True(t, ColorsMatch([]string{"white", "Jet Black"}, NewSet(Black)))
	assert.False(t, ColorsMatch([]string{"navy"}, NewSet(Black)))
	assert.False(t, ColorsMatch(nil, NewSet(Black)))
	assert.False(t, ColorsMatch([]string{"black"}, NewSet()))
}

func TestCanonicalColors(t *testing.T) {
	assert.Equal(t, []string{Blue, White}, CanonicalColors([]string{"navy", "cream", "cobalt", "glitter"}))
}
