package lexicon

import (
	"testing"

	"outfitapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSubtype(t *testing.T) {
	kind, canonical, ok := CanonicalSubtype("Sneakers")
	require.True(t, ok)
	assert.Equal(t, models.LayerShoes, kind)
	assert.Equal(t, "trainers", canonical)

	kind, canonical, ok = CanonicalSubtype("T-Shirt")
	require.True(t, ok)
	assert.Equal(t, models.LayerTop, kind)
	assert.Equal(t, "tshirt", canonical)

	kind, canonical, ok = CanonicalSubtype("chinos")
	require.True(t, ok)
	assert.Equal(t, models.LayerBottom, kind)
	assert.Equal(t, "trousers", canonical)

	_, _, ok = CanonicalSubtype("oxford")
	assert.False(t, ok)
	_, _, ok = CanonicalSubtype("denim")
	assert.False(t, ok)
}

func TestSubtypeMatches(t *testing.T) {
	assert.True(t, SubtypeMatches("anything", "", models.LayerShoes, nil))
	assert.True(t, SubtypeMatches("Chelsea ankle boots leather", "", models.LayerShoes, NewSet("boots")))
	assert.True(t, SubtypeMatches("leather", "Sneaker", models.LayerShoes, NewSet("heels", "trainers")))
	assert.False(t, SubtypeMatches("strappy sandals", "sandal", models.LayerShoes, NewSet("boots")))
	// a top-only requirement does not constrain shoes
	assert.True(t, SubtypeMatches("strappy sandals", "sandal", models.LayerShoes, NewSet("blouse")))
	// unknown subtypes match literally
	assert.True(t, SubtypeMatches("silk kimono", "", models.LayerOuterwear, NewSet("kimono")))
}

func TestHumanLabel(t *testing.T) {
	assert.Equal(t, "", HumanLabel(NewSet()))
	assert.Equal(t, "boots", HumanLabel(NewSet("boots")))
	assert.Equal(t, "boots, heels, loafers", HumanLabel(NewSet("loafers", "boots", "heels")))
	assert.Equal(t, "boots, flats, heels…", HumanLabel(NewSet("loafers", "boots", "heels", "flats")))
}

func TestSubtypeNames(t *testing.T) {
	assert.Equal(t, []string{"blazer", "coat", "jacket"}, SubtypeNames(models.LayerOuterwear))
}
