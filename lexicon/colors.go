package lexicon

import (
	"strings"

	"outfitapi/languageutil"
)

const (
	Black  = "black"
	White  = "white"
	Gray   = "gray"
	Beige  = "beige"
	Brown  = "brown"
	Red    = "red"
	Pink   = "pink"
	Orange = "orange"
	Yellow = "yellow"
	Green  = "green"
	Blue   = "blue"
	Purple = "purple"
)

var BaseColors = []string{Black, White, Gray, Beige, Brown, Red, Pink, Orange, Yellow, Green, Blue, Purple}

var baseColorSet = NewSet(BaseColors...)

// NeutralColors are the bases that sit quietly with anything.
var NeutralColors = NewSet(Black, White, Gray, Beige, Brown)

// EarthColors drive the earth palette bonus.
var EarthColors = NewSet(Brown, Beige, Green, Orange)

// at most one of these is stripped from the front of a token
var colorModifiers = []string{
	"light", "dark", "pale", "deep", "bright", "pastel", "muted", "soft", "dusty",
	"baby", "hot", "neon", "warm", "cool", "off", "powder", "rich", "burnt",
}

// PastelModifiers mark an item color as pastel when present in the raw word.
var PastelModifiers = []string{"pastel", "pale", "light", "baby", "powder", "soft", "dusty"}

var colorAliases = map[string]string{
	// gray
	"grey": Gray, "charcoal": Gray, "smoke": Gray, "smoky": Gray, "smokey": Gray,
	"graphite": Gray, "slate": Gray, "ash": Gray, "ashen": Gray, "heather": Gray,
	"pewter": Gray, "gunmetal": Gray, "silver": Gray, "dove": Gray, "gris": Gray,
	// black
	"jet": Black, "onyx": Black, "ebony": Black, "noir": Black, "ink": Black,
	"raven": Black, "coal": Black,
	// white
	"ivory": White, "cream": White, "creme": White, "eggshell": White, "snow": White,
	"pearl": White, "chalk": White, "blanc": White,
	// beige
	"khaki": Beige, "sand": Beige, "ecru": Beige, "nude": Beige, "stone": Beige,
	"oatmeal": Beige, "oat": Beige, "champagne": Beige, "bisque": Beige, "fawn": Beige,
	// brown
	"tan": Brown, "camel": Brown, "chocolate": Brown, "coffee": Brown, "mocha": Brown,
	"cognac": Brown, "chestnut": Brown, "espresso": Brown, "walnut": Brown,
	"taupe": Brown, "caramel": Brown, "hazel": Brown, "umber": Brown, "bronze": Brown,
	// red
	"burgundy": Red, "maroon": Red, "wine": Red, "crimson": Red, "scarlet": Red,
	"cherry": Red, "oxblood": Red, "ruby": Red, "brick": Red, "rouge": Red,
	"bordeaux": Red, "merlot": Red, "cranberry": Red,
	// pink
	"blush": Pink, "rose": Pink, "fuchsia": Pink, "magenta": Pink, "salmon": Pink,
	"bubblegum": Pink, "flamingo": Pink,
	// orange
	"rust": Orange, "terracotta": Orange, "coral": Orange, "peach": Orange,
	"apricot": Orange, "tangerine": Orange, "amber": Orange, "copper": Orange,
	// yellow
	"mustard": Yellow, "lemon": Yellow, "gold": Yellow, "golden": Yellow,
	"canary": Yellow, "butter": Yellow, "ochre": Yellow, "saffron": Yellow, "honey": Yellow,
	// green
	"olive": Green, "sage": Green, "mint": Green, "emerald": Green, "forest": Green,
	"lime": Green, "jade": Green, "moss": Green, "pistachio": Green, "khakigreen": Green,
	// blue
	"navy": Blue, "cobalt": Blue, "teal": Blue, "turquoise": Blue, "aqua": Blue,
	"indigo": Blue, "sky": Blue, "azure": Blue, "sapphire": Blue, "denim": Blue,
	"cerulean": Blue, "periwinkle": Blue, "cyan": Blue,
	// purple
	"lavender": Purple, "lilac": Purple, "violet": Purple, "plum": Purple,
	"mauve": Purple, "aubergine": Purple, "eggplant": Purple, "grape": Purple,
	"amethyst": Purple, "orchid": Purple,
}

var colorFamilies = map[string]Set{
	Black:  NewSet(Black, "jet", "onyx", "ebony", "noir", "charcoal"),
	White:  NewSet(White, "ivory", "cream", "creme", "offwhite", "eggshell", "snow", "pearl", "chalk"),
	Gray:   NewSet(Gray, "grey", "slate", "ash", "graphite", "charcoal", "silver", "heather", "pewter", "gunmetal", "smoke"),
	Beige:  NewSet(Beige, "khaki", "sand", "ecru", "nude", "stone", "oatmeal", "camel", "tan", "cream"),
	Brown:  NewSet(Brown, "tan", "camel", "chocolate", "coffee", "mocha", "cognac", "chestnut", "taupe", "caramel"),
	Red:    NewSet(Red, "burgundy", "maroon", "wine", "crimson", "scarlet", "cherry", "oxblood", "ruby"),
	Pink:   NewSet(Pink, "blush", "rose", "fuchsia", "magenta", "salmon"),
	Orange: NewSet(Orange, "rust", "terracotta", "coral", "peach", "apricot", "tangerine"),
	Yellow: NewSet(Yellow, "mustard", "lemon", "gold", "canary", "ochre"),
	Green:  NewSet(Green, "olive", "sage", "mint", "emerald", "forest", "lime", "jade", "moss"),
	Blue:   NewSet(Blue, "navy", "cobalt", "turquoise", "aqua", "indigo", "sky", "azure", "denim", "teal", "sapphire"),
	Purple: NewSet(Purple, "lavender", "lilac", "violet", "plum", "mauve", "aubergine"),
}

// NormalizeColor maps a free-text color word to one of BaseColors.
func NormalizeColor(raw string) (string, bool) {
	token := languageutil.FoldToken(raw)
	if token == "" {
		return "", false
	}
	token = stripModifier(token)
	for _, candidate := range ishStems(token) {
		if base, ok := lookupColor(candidate); ok {
			return base, true
		}
	}
	return "", false
}

// IsBaseColor reports whether value is already canonical.
func IsBaseColor(value string) bool {
	return baseColorSet.Has(value)
}

// ExpandFamily returns the near-synonyms of base, always including base itself.
func ExpandFamily(base string) Set {
	if family, ok := colorFamilies[base]; ok {
		return family.Clone()
	}
	return NewSet(base)
}

// ColorsMatch reports whether any of the item colors, raw or canonical, is in want.
func ColorsMatch(itemColors []string, want Set) bool {
	if len(want) == 0 {
		return false
	}
	for _, c := range itemColors {
		if want.Has(languageutil.FoldToken(c)) {
			return true
		}
		if base, ok := NormalizeColor(c); ok && want.Has(base) {
			return true
		}
	}
	return false
}

// FamiliesMatch reports whether any item color falls into the family of any base in bases.
func FamiliesMatch(itemColors []string, bases Set) bool {
	for base := range bases {
		if ColorsMatch(itemColors, ExpandFamily(base)) {
			return true
		}
	}
	return false
}

// CanonicalColors normalizes every recognized item color, keeping first-seen order.
func CanonicalColors(itemColors []string) []string {
	seen := make(Set, len(itemColors))
	out := make([]string, 0, len(itemColors))
	for _, c := range itemColors {
		base, ok := NormalizeColor(c)
		if !ok || seen.Has(base) {
			continue
		}
		seen.Add(base)
		out = append(out, base)
	}
	return out
}

func stripModifier(token string) string {
	for _, m := range colorModifiers {
		if len(token) > len(m) && strings.HasPrefix(token, m) {
			return token[len(m):]
		}
	}
	return token
}

// ishStems returns the token plus repaired stems when it ends in "ish".
func ishStems(token string) []string {
	if len(token) <= 5 || !strings.HasSuffix(token, "ish") {
		return []string{token}
	}
	stem := strings.TrimSuffix(token, "ish")
	stems := []string{stem, stem + "e"}
	if n := len(stem); n > 1 && stem[n-1] == stem[n-2] {
		stems = append(stems, stem[:n-1])
	}
	return stems
}

func lookupColor(token string) (string, bool) {
	if base, ok := colorAliases[token]; ok {
		return base, true
	}
	if baseColorSet.Has(token) {
		return token, true
	}
	for _, base := range BaseColors {
		if !strings.HasSuffix(token, base) {
			continue
		}
		// "red" ends too many words ("tailored", "layered") to trust without a color prefix
		prefix := strings.TrimSuffix(token, base)
		if len(base) >= 4 || isColorWord(prefix) {
			return base, true
		}
	}
	return "", false
}

func isColorWord(token string) bool {
	if _, ok := colorAliases[token]; ok {
		return true
	}
	if baseColorSet.Has(token) {
		return true
	}
	for _, m := range colorModifiers {
		if token == m {
			return true
		}
	}
	return false
}
