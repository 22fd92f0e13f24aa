package lexicon

import (
	"testing"

	"outfitapi/models"

	"github.com/stretchr/testify/assert"
)

func item(category, subcategory string) models.Clothing {
	return models.Clothing{Category: category, Subcategory: subcategory}
}

func TestMatchesLayer(t *testing.T) {
	cases := []struct {
		item models.Clothing
		want []models.LayerKind
	}{
		{item("Dress", "Sundress"), []models.LayerKind{models.LayerDress}},
		{item("Shoes", "Dress shoes"), []models.LayerKind{models.LayerShoes}},
		{item("Shirt", "Dress shirt"), []models.LayerKind{models.LayerTop}},
		{item("Bottoms", "Bootcut jeans"), []models.LayerKind{models.LayerBottom}},
		{item("Top", "Oxford shirt"), []models.LayerKind{models.LayerTop}},
		{item("Footwear", "High-top sneakers"), []models.LayerKind{models.LayerShoes}},
		{item("Outerwear", "Denim jacket"), []models.LayerKind{models.LayerOuterwear}},
		{item("Dresses", "Shirt dress"), []models.LayerKind{models.LayerDress}},
		{item("", "Shirt dress"), []models.LayerKind{models.LayerDress}},
		{item("Shoes", "Knit sneakers"), []models.LayerKind{models.LayerShoes}},
		{item("", "Top-Sider"), []models.LayerKind{models.LayerShoes}},
		{item("", "Coated jeans"), []models.LayerKind{models.LayerBottom}},
		{item("Bottoms", "Baggy jeans"), []models.LayerKind{models.LayerBottom}},
		{item("Bag", "Leather tote"), []models.LayerKind{models.LayerBag}},
		{item("Accessories", "Wool scarf"), []models.LayerKind{models.LayerAccessory}},
		{item("Misc", "Umbrella"), nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.item), c.item.ClassText())
	}
}

func TestBaseKindsAreExclusive(t *testing.T) {
	samples := []models.Clothing{
		item("Shoes", "Ankle boots"),
		item("Bottoms", "Boot cut trousers"),
		item("Outerwear", "Trench coat"),
		item("Top", "Knit cardigan"),
		item("Dress", "Knit dress"),
		item("Shoes", "Dress boots"),
		item("Tops", "Tank top"),
		item("Bottom", "Shorts"),
		item("Shoes", "Knit sneakers"),
		item("Shoes", "Sweater boots"),
		item("Shoes", "Top-Sider"),
		item("Bottom", "Coated jeans"),
		item("Clothing", "Knit dress"),
	}
	for _, it := range samples {
		base := 0
		for _, kind := range models.AllLayerKinds {
			if kind.IsBase() && MatchesLayer(it, kind) {
				base++
			}
		}
		assert.Equal(t, 1, base, it.ClassText())
	}
}

func TestCategoryDecidesBaseKind(t *testing.T) {
	cases := []struct {
		item models.Clothing
		want models.LayerKind
	}{
		{item("Shoes", "Knit sneakers"), models.LayerShoes},
		{item("Shoes", "Sweater boots"), models.LayerShoes},
		{item("Shoes", "Top-Sider"), models.LayerShoes},
		{item("Bottom", "Coated jeans"), models.LayerBottom},
		{item("Outerwear", "Knit cardigan coat"), models.LayerOuterwear},
		// the category names no base family, so precedence decides
		{item("Clothing", "Knit dress"), models.LayerDress},
	}
	for _, c := range cases {
		assert.True(t, MatchesLayer(c.item, c.want), c.item.ClassText())
		assert.Equal(t, []models.LayerKind{c.want}, Classify(c.item), c.item.ClassText())
	}
}

func TestKindKeyword(t *testing.T) {
	kind, ok := KindKeyword("Bottoms")
	assert.True(t, ok)
	assert.Equal(t, models.LayerBottom, kind)
	_, ok = KindKeyword("heels")
	assert.False(t, ok)
}

func TestLayerKeywordsCopy(t *testing.T) {
	kw := LayerKeywords(models.LayerShoes)
	kw[0] = "nope"
	assert.NotEqual(t, "nope", LayerKeywords(models.LayerShoes)[0])
}
