package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"outfitapi/lexicon"
	"outfitapi/models"
	"outfitapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type CreateItemIn struct {
	Name        string   `json:"name" validate:"omitempty,max=100"`
	Category    string   `json:"category" validate:"required,max=50"`
	Subcategory string   `json:"subcategory" validate:"omitempty,max=50"`
	Style       string   `json:"style" validate:"omitempty,max=50"`
	Material    string   `json:"material" validate:"omitempty,max=50"`
	Fit         string   `json:"fit" validate:"omitempty,max=50"`
	Pattern     string   `json:"pattern" validate:"omitempty,max=50"`
	DressCode   string   `json:"dress_code" validate:"omitempty,max=50"`
	Colors      []string `json:"colors" validate:"omitempty,max=8,dive,required,max=30"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,required,max=30"`
	FileName    *string  `json:"file_name" validate:"omitempty,max=200"`
}

type ItemResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory"`
	Style       string             `json:"style"`
	Material    string             `json:"material"`
	DressCode   string             `json:"dress_code"`
	Colors      []string           `json:"colors"`
	Tags        []string           `json:"tags"`
	Kinds       []models.LayerKind `json:"kinds"`
	Uri         *string            `json:"uri,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

type ItemCreatedResponse struct {
	Item          ItemResponse `json:"item"`
	FileUploadUrl string       `json:"file_upload_url,omitempty"`
}

// ItemsListResponse groups items by layer kind. An item the classifier cannot
// place is listed under Unsorted and never used by the outfit engine.
type ItemsListResponse struct {
	ByKind   map[models.LayerKind][]ItemResponse `json:"by_kind"`
	Unsorted []ItemResponse                      `json:"unsorted"`
}

type WardrobeController struct {
	Wardrobe    services.WardrobeStore
	AWSService  services.AWSServiceProvider
	URLCache    services.URLCacheServiceProvider
	Invalidator ItemInvalidator
	Bucket      string
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/items", controller.CreateItem)
	g.GET("/items", controller.ListItems)
	g.DELETE("/items/:id", controller.DeleteItem)
}

func (controller *WardrobeController) CreateItem(c echo.Context) error {
	var req CreateItemIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	ctx := c.Request().Context()

	item := models.Clothing{
		Name:        req.Name,
		Category:    strings.TrimSpace(req.Category),
		Subcategory: strings.TrimSpace(req.Subcategory),
		Style:       req.Style,
		Material:    req.Material,
		Fit:         req.Fit,
		Pattern:     req.Pattern,
		DressCode:   req.DressCode,
		Colors:      cleanList(req.Colors),
		Tags:        cleanList(req.Tags),
		OwnerID:     user.ID,
	}
	if item.Name == "" {
		item.Name = item.Subcategory
	}
	if item.Name == "" {
		item.Name = item.Category
	}

	var uploadUrl string
	if req.FileName != nil && *req.FileName != "" {
		key, err := services.ItemImageKey(user.ID, *req.FileName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type, use jpg, png, heic or webp"})
		}
		uploadUrl, err = controller.AWSService.PresignLink(ctx, controller.Bucket, key)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("presign upload failed")
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error while creating item with attachment"})
		}
		item.ImageURL = &key
	}

	if err := controller.Wardrobe.CreateItem(ctx, &item); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save item, please try again"})
	}
	if controller.Invalidator != nil {
		controller.Invalidator.Invalidate(user.ID)
	}

	return c.JSON(http.StatusCreated, ItemCreatedResponse{
		Item:          itemResponse(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

func itemResponse(item models.Clothing, uri *string) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Style:       item.Style,
		Material:    item.Material,
		DressCode:   item.DressCode,
		Colors:      append([]string{}, item.Colors...),
		Tags:        append([]string{}, item.Tags...),
		Kinds:       lexicon.Classify(item),
		Uri:         uri,
		CreatedAt:   item.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// populatePresignedItemImages resolves image URLs concurrently. A failing URL
// cache falls back to presigning directly; a failing fallback leaves the URI empty.
func (controller *WardrobeController) populatePresignedItemImages(ctx context.Context, items []models.Clothing) []ItemResponse {
	var wg sync.WaitGroup
	responses := make([]ItemResponse, len(items))

	for i, item := range items {
		wg.Add(1)
		go func(index int, item models.Clothing) {
			defer wg.Done()
			var uri *string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err != nil {
					log.Ctx(ctx).Warn().Err(err).Str("key", objectKey).Msg("url cache failed, presigning directly")
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					url, err = controller.AWSService.GetPresignedR2FileReadURL(ctx, controller.Bucket, objectKey)
					if err != nil {
						sentry.CaptureException(fmt.Errorf("presign fallback for %s: %w", objectKey, err))
						url = ""
					}
				}
				if url != "" {
					uri = &url
				}
			}
			responses[index] = itemResponse(item, uri)
		}(i, item)
	}

	wg.Wait()
	return responses
}

func (controller *WardrobeController) ListItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	items, err := controller.Wardrobe.ListItems(c.Request().Context(), user.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}

	response := ItemsListResponse{
		ByKind:   make(map[models.LayerKind][]ItemResponse, len(models.DisplayOrder)),
		Unsorted: []ItemResponse{},
	}
	for _, kind := range models.DisplayOrder {
		response.ByKind[kind] = []ItemResponse{}
	}
	for _, resp := range controller.populatePresignedItemImages(c.Request().Context(), items) {
		if len(resp.Kinds) == 0 {
			response.Unsorted = append(response.Unsorted, resp)
			continue
		}
		for _, kind := range resp.Kinds {
			response.ByKind[kind] = append(response.ByKind[kind], resp)
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (controller *WardrobeController) DeleteItem(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var itemID uint
	if err := echo.PathParamsBinder(c).Uint("id", &itemID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item id"})
	}

	err := controller.Wardrobe.DeleteItem(c.Request().Context(), user.ID, itemID)
	if services.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
	}
	if controller.Invalidator != nil {
		controller.Invalidator.Invalidate(user.ID)
	}
	return c.NoContent(http.StatusNoContent)
}
