package models

import (
	"strings"

	"github.com/lib/pq"
)

// Clothing is a single wardrobe item. The outfit engine only ever reads it.
type Clothing struct {
	JsonModel
	Name        string         `json:"name"`
	Category    string         `gorm:"index" json:"category"`
	Subcategory string         `json:"subcategory"`
	Style       string         `json:"style"`
	Material    string         `json:"material"`
	Fit         string         `json:"fit"`
	Pattern     string         `json:"pattern"`
	DressCode   string         `json:"dress_code"`
	Colors      pq.StringArray `gorm:"type:text[]" json:"colors"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Owner       UserAccount    `json:"-"`
	OwnerID     uint           `gorm:"index" json:"-"`
	// object key in storage, not a URL
	ImageURL *string `json:"image_url"`
}

// ClassText is what the layer classifier looks at.
func (c Clothing) ClassText() string {
	return c.Category + " " + c.Subcategory
}

// SearchText joins every free-text field used for soft scoring.
func (c Clothing) SearchText() string {
	parts := []string{c.Name, c.Category, c.Subcategory, c.Style, c.Material, c.Fit, c.Pattern, c.DressCode}
	parts = append(parts, c.Tags...)
	return strings.Join(parts, " ")
}
