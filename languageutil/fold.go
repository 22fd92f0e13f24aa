package languageutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters NFD does not decompose
var ligatures = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"ł", "l",
	"đ", "d",
)

// Fold lowercases s and removes diacritics ("Crème" -> "creme").
func Fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return ligatures.Replace(strings.ToLower(folded))
}

// FoldToken folds s and keeps only ASCII letters and digits.
func FoldToken(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldWords folds s into space separated alphanumeric words. Hyphens and
// apostrophes join their neighbours ("T-Shirt" -> "tshirt").
func FoldWords(s string) string {
	return foldWords(s, true)
}

// FoldPhrases is FoldWords with hyphens splitting words instead
// ("smart-casual" -> "smart casual"). Apostrophes still join.
func FoldPhrases(s string) string {
	return foldWords(s, false)
}

func foldWords(s string, joinHyphens bool) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		switch {
		case isAlnum(r):
			b.WriteRune(r)
			space = false
		case r == '\'' || r == '’', r == '-' && joinHyphens:
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments are expected to be FoldWords output.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
