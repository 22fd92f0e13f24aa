package stylist

import (
	"encoding/json"
	"time"

	"outfitapi/models"

	"github.com/google/uuid"
)

// Slot is one populated position of a candidate.
type Slot struct {
	Kind models.LayerKind `json:"kind"`
	Item models.Clothing  `json:"item"`
}

// Candidate is one generated outfit. Two candidates are never the same even when
// they hold the same items; compare IDs, not contents.
type Candidate struct {
	ID          string
	Items       map[models.LayerKind]models.Clothing
	Note        *string
	Relaxations map[models.LayerKind]Relaxation
	CreatedAt   time.Time
}

func newCandidate(items map[models.LayerKind]models.Clothing, relaxations map[models.LayerKind]Relaxation) *Candidate {
	return &Candidate{
		ID:          uuid.NewString(),
		Items:       items,
		Note:        relaxationNote(relaxations),
		Relaxations: relaxations,
		CreatedAt:   time.Now(),
	}
}

// OrderedItems lists the populated slots in display order.
func (c *Candidate) OrderedItems() []Slot {
	slots := make([]Slot, 0, len(c.Items))
	for _, kind := range models.DisplayOrder {
		if item, ok := c.Items[kind]; ok {
			slots = append(slots, Slot{Kind: kind, Item: item})
		}
	}
	return slots
}

// ItemIDs returns the item IDs in display order, ready for saving.
func (c *Candidate) ItemIDs() []uint {
	slots := c.OrderedItems()
	ids := make([]uint, len(slots))
	for i, s := range slots {
		ids[i] = s.Item.ID
	}
	return ids
}

func (c *Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string                          `json:"id"`
		Items       []Slot                          `json:"items"`
		Note        *string                         `json:"note"`
		Relaxations map[models.LayerKind]Relaxation `json:"relaxations,omitempty"`
		CreatedAt   time.Time                       `json:"created_at"`
	}{c.ID, c.OrderedItems(), c.Note, c.Relaxations, c.CreatedAt})
}
