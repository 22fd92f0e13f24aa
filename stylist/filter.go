package stylist

import (
	"outfitapi/lexicon"
	"outfitapi/models"
)

// hardColors is the color set an item of kind must carry: the explicit per-kind
// requirement, else the coherence hue of a strict monochrome request.
func (g *generation) hardColors(kind models.LayerKind) lexicon.Set {
	if colors := g.query.RequiredColorsByKind[kind]; len(colors) > 0 {
		return colors
	}
	if g.query.IsStrictMonochrome() && g.hue != "" {
		return lexicon.NewSet(g.hue)
	}
	return nil
}

// prefilter splits the bucket into items meeting every hard constraint. When none
// do, it falls back to a relaxed pool and reports why.
//
// The relaxed pool never promotes an item that fails a satisfiable constraint.
// If some items carry the color, only they are kept. Otherwise, if some items
// are of the required subtype, only they are kept.
func (g *generation) prefilter(kind models.LayerKind) ([]models.Clothing, Relaxation) {
	items := g.buckets[kind]
	colors := g.hardColors(kind)
	subtypes := g.query.RequiredSubtypesByKind[kind]

	var strict, colorOK, subtypeOK []models.Clothing
	for _, item := range items {
		c := len(colors) == 0 || lexicon.ColorsMatch(item.Colors, colors)
		s := lexicon.SubtypeMatches(item.SearchText(), item.Subcategory, kind, subtypes)
		if c {
			colorOK = append(colorOK, item)
		}
		if s {
			subtypeOK = append(subtypeOK, item)
		}
		if c && s {
			strict = append(strict, item)
		}
	}
	if len(strict) > 0 || len(items) == 0 {
		return strict, Relaxation{Reason: RelaxNone}
	}

	colorUnmet := len(colors) > 0 && len(colorOK) == 0
	subtypeUnmet := len(subtypes) > 0 && len(subtypeOK) == 0
	relax := Relaxation{}
	switch {
	case colorUnmet && subtypeUnmet:
		relax = Relaxation{Reason: RelaxBoth, Colors: colors, Subtypes: subtypes}
	case colorUnmet:
		relax = Relaxation{Reason: RelaxColor, Colors: colors}
	default:
		// subtype unmet, or color and subtype each met by different items
		relax = Relaxation{Reason: RelaxSubtype, Subtypes: subtypes}
	}

	if len(colorOK) > 0 && len(colors) > 0 {
		return colorOK, relax
	}
	if len(subtypes) > 0 && len(subtypeOK) > 0 {
		items = subtypeOK
	}
	if len(g.query.GlobalColors) > 0 {
		var soft []models.Clothing
		for _, item := range items {
			if lexicon.FamiliesMatch(item.Colors, g.query.GlobalColors) {
				soft = append(soft, item)
			}
		}
		if len(soft) > 0 {
			return soft, relax
		}
	}
	return items, relax
}
