package prompt

import (
	"outfitapi/lexicon"
	"outfitapi/models"
)

type phraseRule struct {
	value   string
	phrases []string
}

// checked in order, so two-word codes win over their shorter tails
var dressCodeRules = []phraseRule{
	{"black tie", []string{"black tie"}},
	{"white tie", []string{"white tie"}},
	{"smart casual", []string{"smart casual"}},
	{"business casual", []string{"business casual"}},
	{"cocktail", []string{"cocktail", "semiformal"}},
	{"formal", []string{"formal", "elegant", "dressy"}},
	{"business", []string{"business", "office wear", "corporate"}},
	{"casual", []string{"casual", "laid back", "everyday"}},
}

var occasionRules = []phraseRule{
	{"date night", []string{"date night", "date"}},
	{"brunch", []string{"brunch"}},
	{"workout", []string{"workout", "gym", "run", "running", "yoga", "training"}},
	{"wedding", []string{"wedding", "bridal", "ceremony"}},
	{"interview", []string{"interview"}},
	{"party", []string{"party", "night out", "club", "clubbing", "festival"}},
	{"work", []string{"work", "office", "meeting", "commute"}},
	{"vacation", []string{"vacation", "holiday", "beach", "resort", "pool"}},
	{"dinner", []string{"dinner", "restaurant"}},
	{"travel", []string{"travel", "flight", "airport", "trip"}},
	{"funeral", []string{"funeral", "memorial"}},
}

var preferOuterwearWords = lexicon.NewSet("rain", "rainy", "raining", "cold", "chilly", "winter", "snow", "snowy", "windy", "freezing", "autumn")

var avoidOuterwearWords = lexicon.NewSet("hot", "summer", "heat", "heatwave", "sunny", "humid")

var stopwords = lexicon.NewSet(
	"a", "an", "the", "and", "or", "with", "in", "on", "for", "to", "of", "at",
	"my", "me", "i", "im", "some", "something", "want", "wear", "wearing",
	"outfit", "look", "please", "like", "would", "need", "give", "show", "pick",
	"is", "it", "be", "this", "that", "today", "tonight",
)

var monochromeLeads = lexicon.NewSet("all", "total", "headtotoe")

var monochromeWords = lexicon.NewSet("monochrome", "monochromatic", "tonal", "monotone")

var neutralWords = lexicon.NewSet("neutral", "neutrals", "minimal", "minimalist", "understated")

var pastelWords = lexicon.NewSet("pastel", "pastels", "candy")

var earthWords = lexicon.NewSet("earth", "earthy", "earthtone", "earthtones", "autumnal", "rustic")

var colorfulWords = lexicon.NewSet("colorful", "colourful", "vibrant", "bold", "rainbow", "multicolor", "multicolour")

var styleVocabulary = lexicon.NewSet(
	"casual", "minimalist", "edgy", "classic", "elegant", "sporty", "boho", "preppy",
	"streetwear", "romantic", "vintage", "chic", "grunge", "glam", "feminine",
	"relaxed", "sleek", "retro",
)

var metallicWords = map[string]string{
	"gold": "gold", "golden": "gold",
	"silver": "silver", "chrome": "silver",
}

// tokens that lean the base toward a one-piece
var dressWords = lexicon.NewSet("dress", "dresses", "gown", "gowns", "slipdress", "sundress", "jumpsuit")

type softSubtypes map[models.LayerKind][]string

type softRule struct {
	triggers lexicon.Set
	subtypes softSubtypes
}

var softSubtypeRules = []softRule{
	{
		lexicon.NewSet("sporty", "athletic", "gym", "workout", "running", "yoga", "athleisure"),
		softSubtypes{
			models.LayerShoes:  {"trainers"},
			models.LayerBottom: {"joggers", "leggings"},
			models.LayerTop:    {"tshirt", "hoodie", "tank"},
			models.LayerBag:    {"backpack"},
		},
	},
	{
		lexicon.NewSet("formal", "elegant", "black tie", "white tie", "cocktail", "wedding", "gala", "glam"),
		softSubtypes{
			models.LayerShoes:     {"heels", "oxfords", "loafers"},
			models.LayerOuterwear: {"blazer", "coat"},
			models.LayerDress:     {"gown"},
			models.LayerBag:       {"clutch"},
			models.LayerAccessory: {"jewelry", "watch"},
		},
	},
	{
		lexicon.NewSet("business", "business casual", "smart casual", "office", "work", "interview", "meeting"),
		softSubtypes{
			models.LayerTop:       {"shirt", "blouse"},
			models.LayerBottom:    {"trousers", "skirt"},
			models.LayerOuterwear: {"blazer"},
			models.LayerShoes:     {"loafers", "oxfords"},
			models.LayerBag:       {"tote"},
		},
	},
	{
		lexicon.NewSet("beach", "vacation", "holiday", "resort", "summer", "hot", "sunny", "pool"),
		softSubtypes{
			models.LayerShoes:     {"sandals"},
			models.LayerBottom:    {"shorts"},
			models.LayerDress:     {"sundress"},
			models.LayerTop:       {"tank"},
			models.LayerAccessory: {"hat", "sunglasses"},
			models.LayerBag:       {"tote"},
		},
	},
	{
		lexicon.NewSet("casual", "relaxed", "weekend", "brunch", "everyday", "streetwear"),
		softSubtypes{
			models.LayerShoes:  {"trainers"},
			models.LayerBottom: {"jeans"},
			models.LayerTop:    {"tshirt", "sweater"},
		},
	},
	{
		lexicon.NewSet("rain", "rainy", "raining", "cold", "chilly", "winter", "snow", "snowy", "freezing"),
		softSubtypes{
			models.LayerShoes:     {"boots"},
			models.LayerOuterwear: {"coat", "jacket"},
			models.LayerAccessory: {"scarf", "hat"},
			models.LayerTop:       {"sweater"},
		},
	},
	{
		lexicon.NewSet("edgy", "grunge", "rock", "punk"),
		softSubtypes{
			models.LayerShoes:     {"boots"},
			models.LayerOuterwear: {"jacket"},
			models.LayerBottom:    {"jeans"},
		},
	},
}

// DressCodeTerms lists the words an item's text may carry to match a dress code.
func DressCodeTerms(code string) []string {
	return ruleTerms(dressCodeRules, code)
}

// OccasionTerms lists the words an item's text may carry to match an occasion.
func OccasionTerms(occasion string) []string {
	return ruleTerms(occasionRules, occasion)
}

func ruleTerms(rules []phraseRule, value string) []string {
	for _, r := range rules {
		if r.value == value {
			terms := []string{r.value}
			for _, p := range r.phrases {
				if p != r.value {
					terms = append(terms, p)
				}
			}
			return terms
		}
	}
	return []string{value}
}
