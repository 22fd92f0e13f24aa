package stylist

import (
	"fmt"
	"strings"

	"outfitapi/lexicon"
	"outfitapi/models"
)

type RelaxReason string

const (
	RelaxNone    RelaxReason = "none"
	RelaxColor   RelaxReason = "color"
	RelaxSubtype RelaxReason = "subtype"
	RelaxBoth    RelaxReason = "both"
)

// Relaxation says which hard constraints were dropped to fill a kind.
type Relaxation struct {
	Reason   RelaxReason `json:"reason"`
	Colors   lexicon.Set `json:"colors,omitempty"`
	Subtypes lexicon.Set `json:"subtypes,omitempty"`
}

func (r Relaxation) Relaxed() bool {
	return r.Reason != "" && r.Reason != RelaxNone
}

func (r Relaxation) message(kind models.LayerKind) string {
	colors := colorLabel(r.Colors)
	switch r.Reason {
	case RelaxColor:
		return fmt.Sprintf("no %s %s found", colors, kind.Label())
	case RelaxSubtype:
		return fmt.Sprintf("no %s found among your %s", lexicon.HumanLabel(r.Subtypes), kind.Label())
	case RelaxBoth:
		return fmt.Sprintf("no %s %s found", colors, lexicon.HumanLabel(r.Subtypes))
	}
	return ""
}

// colorLabel names the base colors behind a (possibly family-expanded) color set.
func colorLabel(colors lexicon.Set) string {
	bases := lexicon.NewSet(lexicon.CanonicalColors(colors.Slice())...)
	if len(bases) == 0 {
		return lexicon.HumanLabel(colors)
	}
	return strings.ReplaceAll(lexicon.HumanLabel(bases), ", ", "/")
}

func relaxationNote(relaxations map[models.LayerKind]Relaxation) *string {
	var parts []string
	for _, kind := range models.DisplayOrder {
		if r, ok := relaxations[kind]; ok && r.Relaxed() {
			parts = append(parts, r.message(kind))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	note := strings.ToUpper(parts[0][:1]) + parts[0][1:]
	if len(parts) > 1 {
		note += "; " + strings.Join(parts[1:], "; ")
	}
	note += ", showing the closest matches instead."
	return &note
}
