package stylist

import (
	"outfitapi/languageutil"
	"outfitapi/lexicon"
	"outfitapi/models"
	"outfitapi/prompt"
)

const (
	scoreDressCode       = 25
	scoreOccasion        = 15
	scoreHardColor       = 60
	scoreGlobalColor     = 25
	scoreCoherent        = 35
	scoreIncoherent      = -10
	scoreNeutral         = 20
	scoreEarth           = 15
	scorePastel          = 15
	scoreColorful        = 15
	scoreColorfulMixed   = 20
	scoreSoftSubtype     = 35
	scoreStyleTag        = 18
	scoreMetallic        = 25
	scoreOuterwearPrefer = 30
	scoreOuterwearAvoid  = -40

	// items within this many points of the best are picked uniformly
	bandWidth = 10
)

var pastelHints = lexicon.NewSet("mint", "lavender", "lilac", "blush", "peach", "babyblue", "babypink", "powderblue", "sky", "butter", "cream")

// score is purely additive; only the ranking inside one kind's pool matters.
func (g *generation) score(item models.Clothing, kind models.LayerKind) int {
	q := g.query
	text := languageutil.FoldWords(item.SearchText())
	phrases := languageutil.FoldPhrases(item.SearchText())
	total := 0

	if q.DressCode != nil && containsAny(phrases, prompt.DressCodeTerms(*q.DressCode)) {
		total += scoreDressCode
	}
	if q.Occasion != nil && containsAny(phrases, prompt.OccasionTerms(*q.Occasion)) {
		total += scoreOccasion
	}
	if colors := q.RequiredColorsByKind[kind]; len(colors) > 0 && lexicon.ColorsMatch(item.Colors, colors) {
		total += scoreHardColor
	}
	if len(q.GlobalColors) > 0 && lexicon.FamiliesMatch(item.Colors, q.GlobalColors) {
		total += scoreGlobalColor
	}
	if q.Palette.Kind == prompt.PaletteMonochrome && g.hue != "" {
		if lexicon.ColorsMatch(item.Colors, lexicon.NewSet(g.hue)) {
			total += scoreCoherent
		} else if q.Palette.Strict {
			total += scoreIncoherent
		}
	}
	total += paletteBonus(q.Palette.Kind, item.Colors)

	if soft := q.SubtypeByKind[kind]; len(soft) > 0 && lexicon.SubtypeMatches(item.SearchText(), item.Subcategory, kind, soft) {
		total += scoreSoftSubtype
	}
	for tag := range q.StyleTags {
		if languageutil.ContainsPhrase(text, tag) {
			total += scoreStyleTag
			break
		}
	}
	if kind == models.LayerAccessory && q.Metallic != nil && metallicMatch(*q.Metallic, text, item.Colors) {
		total += scoreMetallic
	}
	if kind == models.LayerOuterwear {
		if q.PreferOuterwear {
			total += scoreOuterwearPrefer
		}
		if q.AvoidOuterwear {
			total += scoreOuterwearAvoid
		}
	}
	return total
}

func paletteBonus(kind prompt.PaletteKind, colors []string) int {
	bases := lexicon.CanonicalColors(colors)
	if len(bases) == 0 {
		return 0
	}
	switch kind {
	case prompt.PaletteNeutral:
		for _, b := range bases {
			if !lexicon.NeutralColors.Has(b) {
				return 0
			}
		}
		return scoreNeutral
	case prompt.PaletteEarth:
		for _, b := range bases {
			if lexicon.EarthColors.Has(b) {
				return scoreEarth
			}
		}
	case prompt.PalettePastel:
		if isPastel(colors) {
			return scorePastel
		}
	case prompt.PaletteColorful:
		vivid := 0
		for _, b := range bases {
			if !lexicon.NeutralColors.Has(b) {
				vivid++
			}
		}
		switch {
		case vivid >= 2:
			return scoreColorfulMixed
		case vivid == 1:
			return scoreColorful
		}
	}
	return 0
}

func isPastel(colors []string) bool {
	for _, c := range colors {
		token := languageutil.FoldToken(c)
		if pastelHints.Has(token) {
			return true
		}
		for _, m := range lexicon.PastelModifiers {
			if len(token) > len(m) && token[:len(m)] == m {
				return true
			}
		}
	}
	return false
}

func metallicMatch(metal, text string, colors []string) bool {
	terms := []string{metal}
	if metal == "gold" {
		terms = append(terms, "golden")
	}
	if containsAny(text, terms) {
		return true
	}
	for _, c := range colors {
		token := languageutil.FoldToken(c)
		for _, t := range terms {
			if token == t {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if languageutil.ContainsPhrase(text, languageutil.FoldPhrases(p)) {
			return true
		}
	}
	return false
}

// pickBand draws uniformly from the items scoring within bandWidth of the best.
func (g *generation) pickBand(pool []models.Clothing, kind models.LayerKind) (models.Clothing, bool) {
	if len(pool) == 0 {
		return models.Clothing{}, false
	}
	scores := make([]int, len(pool))
	best := 0
	for i, item := range pool {
		scores[i] = g.score(item, kind)
		if i == 0 || scores[i] > best {
			best = scores[i]
		}
	}
	band := make([]models.Clothing, 0, len(pool))
	for i, item := range pool {
		if scores[i] >= best-bandWidth {
			band = append(band, item)
		}
	}
	if len(band) == 0 {
		band = pool
	}
	return band[g.rnd.Intn(len(band))], true
}
