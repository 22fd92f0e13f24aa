package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outfitapi/lexicon"
	"outfitapi/models"
	"outfitapi/stylist"

	"gorm.io/gorm"
)

type WardrobeStore interface {
	stylist.ItemSource
	CreateItem(ctx context.Context, item *models.Clothing) error
	ListItems(ctx context.Context, userID uint) ([]models.Clothing, error)
	FindItems(ctx context.Context, userID uint, ids []uint) ([]models.Clothing, error)
	DeleteItem(ctx context.Context, userID uint, id uint) error
}

// OutfitMeta is the caller supplied part of a saved outfit.
type OutfitMeta struct {
	Name     string
	Occasion *string
	Date     *time.Time
	Favorite bool
	Status   string
	Prompt   *string
	Note     *string
}

type OutfitStore interface {
	SaveOutfit(ctx context.Context, userID uint, slots []stylist.Slot, meta OutfitMeta) (*models.Outfit, error)
	ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error)
}

// GormWardrobe stores items and outfits in postgres.
type GormWardrobe struct {
	db *gorm.DB
}

func NewGormWardrobe(db *gorm.DB) *GormWardrobe {
	return &GormWardrobe{db: db}
}

// FetchItems returns the user's newest items whose category text mentions one of
// the kind's keywords. The engine still classifies every row it gets back.
func (w *GormWardrobe) FetchItems(ctx context.Context, userID uint, kind models.LayerKind, limit int) ([]models.Clothing, error) {
	query := w.db.WithContext(ctx).Where("owner_id = ?", userID)

	keywords := lexicon.LayerKeywords(kind)
	if len(keywords) > 0 {
		clauses := make([]string, len(keywords))
		args := make([]interface{}, len(keywords))
		for i, kw := range keywords {
			clauses[i] = "(category || ' ' || subcategory) ILIKE ?"
			args[i] = "%" + kw + "%"
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	var items []models.Clothing
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("fetch %s items: %w", kind, err)
	}
	return items, nil
}

func (w *GormWardrobe) CreateItem(ctx context.Context, item *models.Clothing) error {
	if err := w.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (w *GormWardrobe) ListItems(ctx context.Context, userID uint) ([]models.Clothing, error) {
	var items []models.Clothing
	err := w.db.WithContext(ctx).Where("owner_id = ?", userID).Order("created_at desc").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindItems loads the user's items in the order of ids. Any missing or foreign id
// fails the whole lookup with ErrItemsNotFound.
func (w *GormWardrobe) FindItems(ctx context.Context, userID uint, ids []uint) ([]models.Clothing, error) {
	var rows []models.Clothing
	err := w.db.WithContext(ctx).Where("owner_id = ? AND id IN ?", userID, ids).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	return orderByIDs(rows, ids)
}

func (w *GormWardrobe) DeleteItem(ctx context.Context, userID uint, id uint) error {
	result := w.db.WithContext(ctx).Where("owner_id = ? AND id = ?", userID, id).Delete(&models.Clothing{})
	if result.Error != nil {
		return fmt.Errorf("delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemsNotFound
	}
	return nil
}

// SaveOutfit writes the outfit and its ordered items in one transaction.
func (w *GormWardrobe) SaveOutfit(ctx context.Context, userID uint, slots []stylist.Slot, meta OutfitMeta) (*models.Outfit, error) {
	if len(slots) == 0 {
		return nil, ErrItemsNotFound
	}
	status := meta.Status
	if status == "" {
		status = models.OutfitStatusSaved
	}
	outfit := models.Outfit{
		Name:     meta.Name,
		Occasion: meta.Occasion,
		Date:     meta.Date,
		Favorite: meta.Favorite,
		Status:   status,
		Prompt:   meta.Prompt,
		Note:     meta.Note,
		OwnerID:  userID,
	}
	for i, slot := range slots {
		outfit.Items = append(outfit.Items, models.OutfitItem{
			ClothingID: slot.Item.ID,
			Kind:       slot.Kind,
			Position:   i,
		})
	}
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&outfit).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save outfit: %w", err)
	}
	return &outfit, nil
}

func (w *GormWardrobe) ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error) {
	var outfits []models.Outfit
	err := w.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Items.Clothing").
		Where("owner_id = ?", userID).
		Order("created_at desc").
		Find(&outfits).Error
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	return outfits, nil
}

// SlotsForItems pairs each item with its first matching layer kind, keeping order.
func SlotsForItems(items []models.Clothing) []stylist.Slot {
	slots := make([]stylist.Slot, len(items))
	for i, item := range items {
		slots[i] = stylist.Slot{Item: item}
		if kinds := lexicon.Classify(item); len(kinds) > 0 {
			slots[i].Kind = kinds[0]
		}
	}
	return slots
}

func orderByIDs(rows []models.Clothing, ids []uint) ([]models.Clothing, error) {
	byID := make(map[uint]models.Clothing, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make([]models.Clothing, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("item %d: %w", id, ErrItemsNotFound)
		}
		out = append(out, item)
	}
	return out, nil
}

// IsNotFound reports whether err means the rows asked for do not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemsNotFound) || errors.Is(err, ErrUserNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
