package models

import "time"

const (
	OutfitStatusSaved     = "saved"
	OutfitStatusSuggested = "suggested"
)

// Outfit is a persisted, user-chosen combination of wardrobe items.
type Outfit struct {
	JsonModel
	Name     string       `json:"name"`
	Occasion *string      `json:"occasion"`
	Date     *time.Time   `json:"date"`
	Favorite bool         `json:"favorite"`
	Status   string       `json:"status"` // saved, suggested
	Prompt   *string      `gorm:"type:text" json:"prompt"`
	Note     *string      `gorm:"type:text" json:"note"`
	Owner    UserAccount  `json:"-"`
	OwnerID  uint         `gorm:"index" json:"-"`
	Items    []OutfitItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
}

type OutfitItem struct {
	JsonModel
	OutfitID   uint      `json:"-"`
	ClothingID uint      `json:"clothing_id"`
	Clothing   Clothing  `json:"clothing"`
	Kind       LayerKind `json:"kind"`
	Position   int       `json:"position"`
}
