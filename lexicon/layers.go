package lexicon

import (
	"strings"

	"outfitapi/languageutil"
	"outfitapi/models"
)

type layerFamily struct {
	keywords []string
	// phrases removed from the text before this family is tested
	anti []string
}

var layerFamilies = map[models.LayerKind]layerFamily{
	models.LayerDress: {
		keywords: []string{"dress", "gown", "jumpsuit", "romper", "playsuit"},
		anti: []string{
			"dress shoe", "dress boot", "dress shirt", "dress pant", "dress trouser",
			"dress sock", "dress coat", "dressy",
		},
	},
	models.LayerOuterwear: {
		keywords: []string{
			"outerwear", "jacket", "coat", "blazer", "parka", "trench", "bomber",
			"windbreaker", "puffer", "gilet", "poncho", "anorak", "shacket",
		},
		anti: []string{"coated", "coating"},
	},
	models.LayerBottom: {
		keywords: []string{
			"bottom", "jean", "trouser", "pant", "shorts", "skirt", "legging",
			"jogger", "chino", "slacks", "culotte",
		},
	},
	models.LayerTop: {
		keywords: []string{
			"top", "shirt", "blouse", "sweater", "hoodie", "tank", "polo", "knit",
			"jumper", "pullover", "cardigan", "camisole", "turtleneck", "bodysuit",
		},
		anti: []string{"high top", "hightop", "low top", "lowtop", "topsider"},
	},
	models.LayerShoes: {
		keywords: []string{
			"shoe", "footwear", "sneaker", "trainer", "boot", "heel", "pump", "loafer",
			"sandal", "flats", "oxford", "brogue", "mule", "slipper", "espadrille",
			"stiletto", "slides", "moccasin", "topsider",
		},
	},
	models.LayerBag: {
		keywords: []string{"bag", "tote", "clutch", "backpack", "purse", "crossbody", "satchel", "rucksack"},
		anti:     []string{"baggy"},
	},
	models.LayerAccessory: {
		keywords: []string{
			"accessor", "belt", "scarf", "scarves", "hat", "beanie", "jewel", "necklace",
			"earring", "bracelet", "watch", "sunglass", "glove", "necktie", "bowtie",
		},
	},
}

// base kinds in precedence order; a kind loses to every kind before it
var basePrecedence = []models.LayerKind{
	models.LayerDress, models.LayerOuterwear, models.LayerBottom, models.LayerTop, models.LayerShoes,
}

// kind words a prompt may use without naming a subtype
var kindKeywords = map[string]models.LayerKind{
	"dress": models.LayerDress, "dresses": models.LayerDress,
	"top": models.LayerTop, "tops": models.LayerTop,
	"bottom": models.LayerBottom, "bottoms": models.LayerBottom,
	"outerwear": models.LayerOuterwear, "layer": models.LayerOuterwear,
	"shoes": models.LayerShoes, "shoe": models.LayerShoes, "footwear": models.LayerShoes,
	"bag": models.LayerBag, "bags": models.LayerBag, "purse": models.LayerBag, "handbag": models.LayerBag,
	"accessory": models.LayerAccessory, "accessories": models.LayerAccessory,
}

func (f layerFamily) hits(text string) bool {
	for _, phrase := range f.anti {
		text = strings.ReplaceAll(text, phrase, " ")
	}
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MatchesLayer reports whether item belongs in the kind's bucket. An item lands in
// at most one base kind.
func MatchesLayer(item models.Clothing, kind models.LayerKind) bool {
	family, ok := layerFamilies[kind]
	if !ok {
		return false
	}
	if !kind.IsBase() {
		return family.hits(languageutil.FoldWords(item.ClassText()))
	}
	base, ok := baseKind(item)
	return ok && base == kind
}

// baseKind resolves the one base kind an item belongs to. A category naming a
// single base family decides; otherwise the first family in precedence order
// hit by category and subcategory together wins.
func baseKind(item models.Clothing) (models.LayerKind, bool) {
	if kind, ok := soleBaseHit(languageutil.FoldWords(item.Category)); ok {
		return kind, true
	}
	text := languageutil.FoldWords(item.ClassText())
	for _, kind := range basePrecedence {
		if layerFamilies[kind].hits(text) {
			return kind, true
		}
	}
	return "", false
}

func soleBaseHit(text string) (models.LayerKind, bool) {
	var found models.LayerKind
	hits := 0
	for _, kind := range basePrecedence {
		if layerFamilies[kind].hits(text) {
			found = kind
			hits++
		}
	}
	return found, hits == 1
}

// LayerKeywords returns the keyword family for kind, used to prefilter in SQL.
func LayerKeywords(kind models.LayerKind) []string {
	family := layerFamilies[kind]
	out := make([]string, len(family.keywords))
	copy(out, family.keywords)
	return out
}

// KindKeyword resolves a bare kind word such as "shoes" or "bottoms".
func KindKeyword(token string) (models.LayerKind, bool) {
	kind, ok := kindKeywords[languageutil.FoldToken(token)]
	return kind, ok
}

// Classify returns every kind the item matches, in display order.
func Classify(item models.Clothing) []models.LayerKind {
	var kinds []models.LayerKind
	for _, kind := range models.DisplayOrder {
		if MatchesLayer(item, kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
