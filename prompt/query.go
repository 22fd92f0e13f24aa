package prompt

import (
	"encoding/json"

	"outfitapi/lexicon"
	"outfitapi/models"
)

type PaletteKind string

const (
	PaletteNone       PaletteKind = "none"
	PaletteMonochrome PaletteKind = "monochrome"
	PaletteNeutral    PaletteKind = "neutral"
	PalettePastel     PaletteKind = "pastel"
	PaletteEarth      PaletteKind = "earth"
	PaletteColorful   PaletteKind = "colorful"
)

// PaletteMode is the overall color scheme asked for. Color and Strict only apply to monochrome.
type PaletteMode struct {
	Kind   PaletteKind `json:"kind"`
	Color  *string     `json:"color,omitempty"`
	Strict bool        `json:"strict,omitempty"`
}

// KindSet is a set of layer kinds that marshals in display order.
type KindSet map[models.LayerKind]struct{}

func (s KindSet) Add(kind models.LayerKind) {
	s[kind] = struct{}{}
}

func (s KindSet) Has(kind models.LayerKind) bool {
	_, ok := s[kind]
	return ok
}

func (s KindSet) Slice() []models.LayerKind {
	out := make([]models.LayerKind, 0, len(s))
	for _, kind := range models.DisplayOrder {
		if s.Has(kind) {
			out = append(out, kind)
		}
	}
	return out
}

func (s KindSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// PromptQuery is the structured reading of one free-text request. It is built by
// Parse and treated as read-only afterwards.
type PromptQuery struct {
	Text                   string                           `json:"text"`
	RequiredColorsByKind   map[models.LayerKind]lexicon.Set `json:"required_colors_by_kind"`
	RequiredSubtypesByKind map[models.LayerKind]lexicon.Set `json:"required_subtypes_by_kind"`
	SubtypeByKind          map[models.LayerKind]lexicon.Set `json:"subtype_by_kind"`
	RequiredKinds          KindSet                          `json:"required_kinds"`
	GlobalColors           lexicon.Set                      `json:"global_colors"`
	StyleTags              lexicon.Set                      `json:"style_tags"`
	DressCode              *string                          `json:"dress_code"`
	Occasion               *string                          `json:"occasion"`
	Palette                PaletteMode                      `json:"palette"`
	WantsDressBase         *bool                            `json:"wants_dress_base"`
	PreferOuterwear        bool                             `json:"prefer_outerwear"`
	AvoidOuterwear         bool                             `json:"avoid_outerwear"`
	Metallic               *string                          `json:"metallic"`
}

func NewPromptQuery(text string) *PromptQuery {
	return &PromptQuery{
		Text:                   text,
		RequiredColorsByKind:   map[models.LayerKind]lexicon.Set{},
		RequiredSubtypesByKind: map[models.LayerKind]lexicon.Set{},
		SubtypeByKind:          map[models.LayerKind]lexicon.Set{},
		RequiredKinds:          KindSet{},
		GlobalColors:           lexicon.NewSet(),
		StyleTags:              lexicon.NewSet(),
		Palette:                PaletteMode{Kind: PaletteNone},
	}
}

// HasBottomRequirement reports whether the request pins anything on the bottom layer.
func (q *PromptQuery) HasBottomRequirement() bool {
	return len(q.RequiredSubtypesByKind[models.LayerBottom]) > 0 ||
		len(q.RequiredColorsByKind[models.LayerBottom]) > 0 ||
		q.RequiredKinds.Has(models.LayerBottom)
}

func (q *PromptQuery) IsStrictMonochrome() bool {
	return q.Palette.Kind == PaletteMonochrome && q.Palette.Strict
}

func (q *PromptQuery) requireColors(kind models.LayerKind, colors lexicon.Set) {
	if q.RequiredColorsByKind[kind] == nil {
		q.RequiredColorsByKind[kind] = lexicon.NewSet()
	}
	q.RequiredColorsByKind[kind].Union(colors)
}

func (q *PromptQuery) requireSubtype(kind models.LayerKind, subtype string) {
	if q.RequiredSubtypesByKind[kind] == nil {
		q.RequiredSubtypesByKind[kind] = lexicon.NewSet()
	}
	q.RequiredSubtypesByKind[kind].Add(subtype)
}

func (q *PromptQuery) preferSubtype(kind models.LayerKind, subtype string) {
	if q.SubtypeByKind[kind] == nil {
		q.SubtypeByKind[kind] = lexicon.NewSet()
	}
	q.SubtypeByKind[kind].Add(subtype)
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}
