package languageutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "creme brulee", Fold("Crème Brûlée"))
	assert.Equal(t, "strasse", Fold("Straße"))
	assert.Equal(t, "", Fold(""))
}

func TestFoldToken(t *testing.T) {
	assert.Equal(t, "offwhite", FoldToken("Off-White!"))
	assert.Equal(t, "tshirt", FoldToken("T-Shirt"))
}

func TestFoldWords(t *testing.T) {
	assert.Equal(t, "tshirt crewneck", FoldWords("T-Shirt / Crew-neck"))
	assert.Equal(t, "womens ankle boots", FoldWords("Women's  Ankle  Boots"))
}

func TestFoldPhrases(t *testing.T) {
	assert.Equal(t, "smart casual loafers", FoldPhrases("Smart-Casual loafers"))
	assert.Equal(t, "t shirt", FoldPhrases("T-Shirt"))
	assert.Equal(t, "womens black tie", FoldPhrases("Women's black-tie"))
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, ContainsPhrase("sunday brunch with friends", "brunch"))
	assert.False(t, ContainsPhrase("sunday brunch with friends", "run"))
	assert.True(t, ContainsPhrase("smart casual office", "smart casual"))
}

func TestRandomOutfitName(t *testing.T) {
	name := RandomOutfitName()
	parts := strings.Split(name, " ")
	assert.Len(t, parts, 2)
	assert.Equal(t, strings.ToUpper(name[:1]), name[:1])
}
