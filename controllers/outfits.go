package controllers

import (
	"fmt"
	"net/http"
	"time"

	"outfitapi/languageutil"
	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/prompt"
	"outfitapi/services"
	"outfitapi/stylist"
	"outfitapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const maxCandidates = 5

type PromptIn struct {
	Prompt string `json:"prompt" validate:"max=500"`
}

type LockIn struct {
	Kind   string `json:"kind" validate:"required,layerkind"`
	ItemID uint   `json:"item_id" validate:"required"`
}

type GenerateOutfitsIn struct {
	Prompt string   `json:"prompt" validate:"max=500"`
	Count  int      `json:"count" validate:"omitempty,min=1,max=5"`
	Locked []LockIn `json:"locked" validate:"omitempty,max=7,dive"`
}

type SkipOutfitIn struct {
	Prompt string   `json:"prompt" validate:"max=500"`
	Locked []LockIn `json:"locked" validate:"omitempty,max=7,dive"`
}

type SaveOutfitIn struct {
	Name     string     `json:"name" validate:"omitempty,max=100"`
	Occasion *string    `json:"occasion" validate:"omitempty,max=50"`
	Date     *time.Time `json:"date"`
	Favorite bool       `json:"favorite"`
	ItemIDs  []uint     `json:"item_ids" validate:"required,min=1,max=7,dive,required"`
	Prompt   *string    `json:"prompt" validate:"omitempty,max=500"`
	Note     *string    `json:"note" validate:"omitempty,max=500"`
}

type SuggestOutfitIn struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
}

type GenerateOutfitsResponse struct {
	Query      *prompt.PromptQuery  `json:"query"`
	Candidates []*stylist.Candidate `json:"candidates"`
}

type OutfitController struct {
	Engine   *stylist.Engine
	Wardrobe services.WardrobeStore
	Outfits  services.OutfitStore
	Enqueuer tasks.Enqueuer
	Metrics  *metrics.Registry
}

func (controller *OutfitController) OutfitRoutes(g *echo.Group) {
	g.POST("/parse", controller.ParsePrompt)
	g.POST("/generate", controller.GenerateOutfits)
	g.POST("/skip", controller.SkipOutfit)
	g.POST("/suggest", controller.SuggestOutfit)
	g.POST("", controller.SaveOutfit)
	g.GET("", controller.ListOutfits)
}

// ParsePrompt shows how a request is read without generating anything.
func (controller *OutfitController) ParsePrompt(c echo.Context) error {
	var req PromptIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, prompt.Parse(req.Prompt))
}

// GenerateOutfits returns up to count independent candidates. Fewer, even none,
// come back when the wardrobe cannot fill a shoe and a base.
func (controller *OutfitController) GenerateOutfits(c echo.Context) error {
	var req GenerateOutfitsIn
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
	count := req.Count
	if count == 0 {
		count = 1
	}
	if count > maxCandidates {
		count = maxCandidates
	}

	ctx := c.Request().Context()
	query := prompt.Parse(req.Prompt)
	locked := lockMap(req.Locked)
	candidates := make([]*stylist.Candidate, 0, count)
	for i := 0; i < count; i++ {
		candidate := controller.Engine.GenerateCandidate(ctx, query, user.ID, stylist.WithLocked(locked))
		if candidate == nil {
			// every later call reads the same wardrobe
			break
		}
		candidates = append(candidates, candidate)
	}
	log.Ctx(ctx).Info().Int("requested", count).Int("generated", len(candidates)).Msg("outfits generated")

	return c.JSON(http.StatusOK, GenerateOutfitsResponse{Query: query, Candidates: candidates})
}

// SkipOutfit discards the shown candidate and returns a fresh one for the same
// request. Nothing about the skipped candidate is remembered.
func (controller *OutfitController) SkipOutfit(c echo.Context) error {
	var req SkipOutfitIn
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

	candidate := controller.Engine.GenerateCandidate(c.Request().Context(), prompt.Parse(req.Prompt), user.ID, stylist.WithLocked(lockMap(req.Locked)))
	if candidate == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No outfit could be put together from your wardrobe"})
	}
	return c.JSON(http.StatusOK, map[string]*stylist.Candidate{"candidate": candidate})
}

func (controller *OutfitController) SaveOutfit(c echo.Context) error {
	var req SaveOutfitIn
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
	seen := make(map[uint]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		if seen[id] {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Item %d is listed twice", id)})
		}
		seen[id] = true
	}
	ctx := c.Request().Context()

	items, err := controller.Wardrobe.FindItems(ctx, user.ID, req.ItemIDs)
	if services.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Some items are no longer in your wardrobe"})
	}
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load items"})
	}

	name := req.Name
	if name == "" {
		name = languageutil.RandomOutfitName()
	}
	outfit, err := controller.Outfits.SaveOutfit(ctx, user.ID, services.SlotsForItems(items), services.OutfitMeta{
		Name:     name,
		Occasion: req.Occasion,
		Date:     req.Date,
		Favorite: req.Favorite,
		Status:   models.OutfitStatusSaved,
		Prompt:   req.Prompt,
		Note:     req.Note,
	})
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[User %v] saving outfit: %w", user.ID, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit, please try again"})
	}
	controller.Metrics.Inc(ctx, metrics.OutfitSaved, map[string]string{"status": models.OutfitStatusSaved})
	return c.JSON(http.StatusCreated, outfit)
}

func (controller *OutfitController) ListOutfits(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	outfits, err := controller.Outfits.ListOutfits(c.Request().Context(), user.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	return c.JSON(http.StatusOK, map[string][]models.Outfit{"outfits": outfits})
}

// SuggestOutfit queues a background suggestion that is saved and pushed when ready.
func (controller *OutfitController) SuggestOutfit(c echo.Context) error {
	var req SuggestOutfitIn
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
	if controller.Enqueuer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Service is not available, please try again a bit later"})
	}
	ctx := c.Request().Context()

	info, err := tasks.EnqueueSuggestion(controller.Enqueuer, user.ID, req.Prompt)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Sorry, could not start the suggestion, please try again"})
	}
	controller.Metrics.Inc(ctx, metrics.SuggestionsEnqueued, map[string]string{"source": "api"})
	log.Ctx(ctx).Info().Str("task_id", info.ID).Msg("outfit suggestion queued")
	return c.JSON(http.StatusAccepted, map[string]string{"task_id": info.ID})
}
