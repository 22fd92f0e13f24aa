package languageutil

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var Adjs []string = []string{
	"crisp",
	"easy",
	"bold",
	"quiet",
	"sharp",
	"soft",
	"sunny",
	"moody",
	"classic",
	"fresh",
	"breezy",
	"polished",
	"relaxed",
	"cosy",
	"sleek",
	"playful",
	"tonal",
	"weekend",
	"midnight",
	"golden",
}

var Nouns []string = []string{
	"edit",
	"ensemble",
	"look",
	"layers",
	"combo",
	"fit",
	"mood",
	"palette",
	"uniform",
	"story",
	"moment",
	"outing",
}

func RandomAdjective() string {
	return Adjs[rand.Intn(len(Adjs))]
}

func RandomNounlike() string {
	return Nouns[rand.Intn(len(Nouns))]
}

// RandomOutfitName builds a default name for outfits saved without one.
func RandomOutfitName() string {
	caser := cases.Title(language.English)
	return caser.String(fmt.Sprintf("%s %s", RandomAdjective(), RandomNounlike()))
}
