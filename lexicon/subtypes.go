package lexicon

import (
	"sort"
	"strings"

	"outfitapi/languageutil"
	"outfitapi/models"
)

type subtypeEntry struct {
	kind     models.LayerKind
	synonyms []string
}

// Synonyms are stored in FoldWords form. Single-word synonyms double as prompt tokens.
var subtypes = map[string]subtypeEntry{
	// shoes
	"trainers": {models.LayerShoes, []string{"trainer", "trainers", "sneaker", "sneakers", "runner", "runners", "kicks", "tennis shoe"}},
	"boots":    {models.LayerShoes, []string{"boot", "boots", "bootie", "booties", "chelsea", "ankle boot", "combat boot"}},
	"heels":    {models.LayerShoes, []string{"heel", "heels", "pump", "pumps", "stiletto", "stilettos", "slingback", "slingbacks"}},
	"loafers":  {models.LayerShoes, []string{"loafer", "loafers", "moccasin", "moccasins"}},
	"sandals":  {models.LayerShoes, []string{"sandal", "sandals", "slides", "flipflop", "flipflops", "espadrille", "espadrilles"}},
	"flats":    {models.LayerShoes, []string{"flats", "ballet flat", "ballerina", "ballerinas", "mary jane"}},
	"oxfords":  {models.LayerShoes, []string{"oxfords", "oxford shoe", "brogue", "brogues", "derby", "derbies"}},
	// bottom
	"jeans":    {models.LayerBottom, []string{"jean", "jeans"}},
	"trousers": {models.LayerBottom, []string{"trouser", "trousers", "pant", "pants", "slacks", "chino", "chinos"}},
	"shorts":   {models.LayerBottom, []string{"shorts", "bermuda", "bermudas"}},
	"skirt":    {models.LayerBottom, []string{"skirt", "skirts", "miniskirt", "midi skirt"}},
	"leggings": {models.LayerBottom, []string{"legging", "leggings"}},
	"joggers":  {models.LayerBottom, []string{"jogger", "joggers", "sweatpants", "trackpants"}},
	// top
	"shirt":   {models.LayerTop, []string{"shirt", "shirts", "buttondown", "button down"}},
	"blouse":  {models.LayerTop, []string{"blouse", "blouses"}},
	"tshirt":  {models.LayerTop, []string{"tshirt", "tshirts", "tee", "tees"}},
	"sweater": {models.LayerTop, []string{"sweater", "sweaters", "jumper", "pullover", "knit", "knitwear", "cardigan", "turtleneck"}},
	"hoodie":  {models.LayerTop, []string{"hoodie", "hoodies", "sweatshirt"}},
	"tank":    {models.LayerTop, []string{"tank", "tanktop", "tank top", "cami", "camisole"}},
	"polo":    {models.LayerTop, []string{"polo", "polos"}},
	// outerwear
	"blazer": {models.LayerOuterwear, []string{"blazer", "blazers", "sportcoat", "suit jacket"}},
	"jacket": {models.LayerOuterwear, []string{"jacket", "jackets", "bomber", "windbreaker", "shacket"}},
	"coat":   {models.LayerOuterwear, []string{"coat", "coats", "trench", "overcoat", "parka", "peacoat", "puffer"}},
	// dress
	"gown":      {models.LayerDress, []string{"gown", "gowns", "evening dress"}},
	"sundress":  {models.LayerDress, []string{"sundress", "sundresses"}},
	"slipdress": {models.LayerDress, []string{"slipdress", "slip dress"}},
	"jumpsuit":  {models.LayerDress, []string{"jumpsuit", "jumpsuits", "romper", "playsuit"}},
	// bag
	"tote":      {models.LayerBag, []string{"tote", "totes", "shopper"}},
	"clutch":    {models.LayerBag, []string{"clutch", "clutches", "minaudiere"}},
	"backpack":  {models.LayerBag, []string{"backpack", "backpacks", "rucksack"}},
	"crossbody": {models.LayerBag, []string{"crossbody", "shoulder bag", "satchel"}},
	// accessory
	"belt":       {models.LayerAccessory, []string{"belt", "belts"}},
	"scarf":      {models.LayerAccessory, []string{"scarf", "scarves", "shawl"}},
	"hat":        {models.LayerAccessory, []string{"hat", "hats", "cap", "beanie", "fedora"}},
	"jewelry":    {models.LayerAccessory, []string{"jewelry", "jewellery", "necklace", "earrings", "bracelet"}},
	"watch":      {models.LayerAccessory, []string{"watch", "watches"}},
	"sunglasses": {models.LayerAccessory, []string{"sunglasses", "shades"}},
}

// token -> canonical, built once from the single-word synonyms
var subtypeIndex = buildSubtypeIndex()

func buildSubtypeIndex() map[string]string {
	index := make(map[string]string)
	for canonical, entry := range subtypes {
		index[canonical] = canonical
		for _, syn := range entry.synonyms {
			if !strings.Contains(syn, " ") {
				index[syn] = canonical
			}
		}
	}
	return index
}

// CanonicalSubtype resolves a single token to its canonical subtype and home kind.
func CanonicalSubtype(token string) (models.LayerKind, string, bool) {
	canonical, ok := subtypeIndex[languageutil.FoldToken(token)]
	if !ok {
		return "", "", false
	}
	return subtypes[canonical].kind, canonical, true
}

// SubtypeKind returns the home kind of a canonical subtype.
func SubtypeKind(canonical string) (models.LayerKind, bool) {
	entry, ok := subtypes[canonical]
	return entry.kind, ok
}

// SubtypeMatches reports whether the item text satisfies any of the required subtypes.
// An empty required set is no constraint. Subtypes whose home kind differs from kind
// do not constrain items of kind; unknown subtypes are matched literally.
func SubtypeMatches(haystack, subcategory string, kind models.LayerKind, required Set) bool {
	if len(required) == 0 {
		return true
	}
	text := " " + languageutil.FoldWords(haystack) + " "
	sub := languageutil.FoldWords(subcategory)
	applicable := false
	for canonical := range required {
		synonyms := []string{canonical}
		if entry, ok := subtypes[canonical]; ok {
			if entry.kind != kind {
				continue
			}
			synonyms = append(synonyms, entry.synonyms...)
		}
		applicable = true
		for _, syn := range synonyms {
			if sub == syn || strings.Contains(text, syn) {
				return true
			}
		}
	}
	return !applicable
}

// HumanLabel renders a subtype set for user-facing messages.
func HumanLabel(names Set) string {
	sorted := names.Slice()
	if len(sorted) <= 3 {
		return strings.Join(sorted, ", ")
	}
	return strings.Join(sorted[:3], ", ") + "…"
}

// SubtypeNames lists every canonical subtype of kind, sorted.
func SubtypeNames(kind models.LayerKind) []string {
	var out []string
	for canonical, entry := range subtypes {
		if entry.kind == kind {
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}
