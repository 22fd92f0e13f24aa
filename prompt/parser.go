package prompt

import (
	"strings"

	"outfitapi/languageutil"
	"outfitapi/lexicon"
	"outfitapi/models"
)

const colorBindWindow = 3

// Parse reads a free-text request into a PromptQuery. It never fails: words it does
// not recognize are dropped and the query just gets softer.
func Parse(text string) *PromptQuery {
	q := NewPromptQuery(text)
	folded := languageutil.FoldWords(text)
	folded = strings.TrimSpace(strings.ReplaceAll(" "+folded+" ", " head to toe ", " headtotoe "))

	// multi-word rules also match their hyphenated spelling ("black-tie")
	phrases := languageutil.FoldPhrases(text)

	tokenText := folded
	if code, phrase, ok := matchRule(dressCodeRules, phrases); ok {
		q.DressCode = stringPtr(code)
		// "black tie" names a dress code, not a black item
		if code == "black tie" || code == "white tie" {
			tokenText = removePhrase(tokenText, phrase)
			tokenText = removePhrase(tokenText, strings.ReplaceAll(phrase, " ", ""))
		}
	}
	if occasion, _, ok := matchRule(occasionRules, phrases); ok {
		q.Occasion = stringPtr(occasion)
	}

	tokens := tokenize(tokenText)

	for _, tok := range tokens {
		if preferOuterwearWords.Has(tok) {
			q.PreferOuterwear = true
		}
		if avoidOuterwearWords.Has(tok) {
			q.AvoidOuterwear = true
		}
	}

	q.Palette = detectPalette(tokens)

	for _, tok := range tokens {
		if styleVocabulary.Has(tok) {
			q.StyleTags.Add(tok)
		}
		if metal, ok := metallicWords[tok]; ok {
			q.Metallic = stringPtr(metal)
		}
	}

	parseKinds(q, tokens)
	bindColors(q, tokens)
	attachSoftSubtypes(q, tokens)

	return q
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopwords.Has(f) {
			continue
		}
		if lead, color, ok := splitMonochrome(f); ok {
			tokens = append(tokens, lead, color)
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// splitMonochrome breaks a joined lead and color such as "allblack" (from
// "all-black") back into its two words.
func splitMonochrome(tok string) (string, string, bool) {
	for lead := range monochromeLeads {
		rest := strings.TrimPrefix(tok, lead)
		if rest == tok || rest == "" {
			continue
		}
		if _, ok := colorToken(rest); ok {
			return lead, rest, true
		}
	}
	return "", "", false
}

func matchRule(rules []phraseRule, text string) (string, string, bool) {
	for _, r := range rules {
		for _, phrase := range r.phrases {
			if languageutil.ContainsPhrase(text, phrase) {
				return r.value, phrase, true
			}
		}
	}
	return "", "", false
}

func removePhrase(text, phrase string) string {
	return strings.TrimSpace(strings.Replace(" "+text+" ", " "+phrase+" ", " ", 1))
}

// colorToken normalizes a token to a base color, ignoring weather words like "snow".
func colorToken(tok string) (string, bool) {
	if preferOuterwearWords.Has(tok) || avoidOuterwearWords.Has(tok) {
		return "", false
	}
	return lexicon.NormalizeColor(tok)
}

// tokenKind maps a subtype or bare kind word to its layer kind.
func tokenKind(tok string) (models.LayerKind, bool) {
	if kind, _, ok := lexicon.CanonicalSubtype(tok); ok {
		return kind, true
	}
	return lexicon.KindKeyword(tok)
}

func detectPalette(tokens []string) PaletteMode {
	for i, tok := range tokens {
		if !monochromeLeads.Has(tok) || i+1 >= len(tokens) {
			continue
		}
		if color, ok := colorToken(tokens[i+1]); ok {
			return PaletteMode{Kind: PaletteMonochrome, Color: stringPtr(color), Strict: true}
		}
	}
	for i, tok := range tokens {
		if !monochromeWords.Has(tok) {
			continue
		}
		mode := PaletteMode{Kind: PaletteMonochrome, Strict: true}
		for _, j := range []int{i + 1, i - 1} {
			if j < 0 || j >= len(tokens) {
				continue
			}
			if color, ok := colorToken(tokens[j]); ok {
				mode.Color = stringPtr(color)
				break
			}
		}
		return mode
	}

	set := lexicon.NewSet(tokens...)
	switch {
	case set.Intersects(neutralWords):
		return PaletteMode{Kind: PaletteNeutral}
	case set.Intersects(pastelWords):
		return PaletteMode{Kind: PalettePastel}
	case set.Intersects(earthWords):
		return PaletteMode{Kind: PaletteEarth}
	case set.Intersects(colorfulWords):
		return PaletteMode{Kind: PaletteColorful}
	}
	return PaletteMode{Kind: PaletteNone}
}

func parseKinds(q *PromptQuery, tokens []string) {
	bottomSubtype := false
	for _, tok := range tokens {
		if kind, subtype, ok := lexicon.CanonicalSubtype(tok); ok {
			q.requireSubtype(kind, subtype)
			q.RequiredKinds.Add(kind)
			if kind == models.LayerBottom {
				bottomSubtype = true
			}
			if kind == models.LayerDress && q.WantsDressBase == nil {
				q.WantsDressBase = boolPtr(true)
			}
			continue
		}
		if kind, ok := lexicon.KindKeyword(tok); ok {
			q.RequiredKinds.Add(kind)
			if kind == models.LayerDress && q.WantsDressBase == nil {
				q.WantsDressBase = boolPtr(true)
			}
		}
	}
	if bottomSubtype {
		q.WantsDressBase = boolPtr(false)
	}
	if q.WantsDressBase != nil {
		return
	}
	for _, tok := range tokens {
		if dressWords.Has(tok) {
			q.WantsDressBase = boolPtr(true)
			return
		}
	}
}

// bindColors ties a color to the first kind word that follows it within the window.
func bindColors(q *PromptQuery, tokens []string) {
	for i := 0; i < len(tokens); i++ {
		color, ok := colorToken(tokens[i])
		if !ok {
			continue
		}
		q.GlobalColors.Add(color)
		for j := i + 1; j <= i+colorBindWindow && j < len(tokens); j++ {
			if kind, ok := tokenKind(tokens[j]); ok {
				q.requireColors(kind, lexicon.ExpandFamily(color))
				i = j
				break
			}
			if _, ok := colorToken(tokens[j]); ok {
				break
			}
		}
	}
}

func attachSoftSubtypes(q *PromptQuery, tokens []string) {
	signals := lexicon.NewSet(tokens...)
	if q.DressCode != nil {
		signals.Add(*q.DressCode)
	}
	if q.Occasion != nil {
		signals.Add(*q.Occasion)
	}
	for _, rule := range softSubtypeRules {
		if !rule.triggers.Intersects(signals) {
			continue
		}
		for kind, names := range rule.subtypes {
			for _, name := range names {
				q.preferSubtype(kind, name)
			}
		}
	}
}
