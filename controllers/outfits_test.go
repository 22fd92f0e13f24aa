package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/services"
	"outfitapi/tasks"
	"outfitapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type candidateOut struct {
	ID    string `json:"id"`
	Items []struct {
		Kind models.LayerKind `json:"kind"`
		Item struct {
			ID uint `json:"id"`
		} `json:"item"`
	} `json:"items"`
	Note *string `json:"note"`
}

func (c candidateOut) itemFor(kind models.LayerKind) (uint, bool) {
	for _, slot := range c.Items {
		if slot.Kind == kind {
			return slot.Item.ID, true
		}
	}
	return 0, false
}

func addBasics(f *serverFixture) []models.Clothing {
	return f.wardrobe.Add(f.user.ID,
		test.Item("Shoes", "Loafers", "black"),
		test.Item("Shoes", "Sneakers", "white"),
		test.Item("Top", "Shirt", "white"),
		test.Item("Bottoms", "Trousers", "black"),
	)
}

func TestParsePrompt(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/outfits/parse", PromptIn{Prompt: "all black outfit for a date night"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response struct {
		Occasion *string `json:"occasion"`
		Palette  struct {
			Kind  string  `json:"kind"`
			Color *string `json:"color"`
		} `json:"palette"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "monochrome", response.Palette.Kind)
	require.NotNil(t, response.Palette.Color)
	assert.Equal(t, "black", *response.Palette.Color)
	require.NotNil(t, response.Occasion)
	assert.Equal(t, "date night", *response.Occasion)
}

func TestGenerateOutfits(t *testing.T) {
	f := setupFixture(t)
	addBasics(f)

	rec := f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{Prompt: "casual weekend", Count: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response struct {
		Candidates []candidateOut `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Candidates, 3)
	ids := map[string]bool{}
	for _, c := range response.Candidates {
		_, hasShoes := c.itemFor(models.LayerShoes)
		assert.True(t, hasShoes)
		_, hasTop := c.itemFor(models.LayerTop)
		assert.True(t, hasTop)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, int64(3), f.reg.Value(metrics.OutfitGenerated, nil))
}

func TestGenerateOutfitsEmptyWardrobe(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{Prompt: "anything"})
	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Candidates []candidateOut `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Candidates)
}

func TestGenerateOutfitsValidation(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{Count: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{Locked: []LockIn{{Kind: "socks", ItemID: 1}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{Locked: []LockIn{{Kind: "shoes"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateOutfitsKeepsLockedItem(t *testing.T) {
	f := setupFixture(t)
	items := addBasics(f)
	sneakers := items[1]

	rec := f.do(http.MethodPost, "/outfits/generate", GenerateOutfitsIn{
		Prompt: "black loafers",
		Count:  5,
		Locked: []LockIn{{Kind: "shoes", ItemID: sneakers.ID}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response struct {
		Candidates []candidateOut `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Candidates, 5)
	for _, c := range response.Candidates {
		shoeID, ok := c.itemFor(models.LayerShoes)
		require.True(t, ok)
		assert.Equal(t, sneakers.ID, shoeID)
	}
}

func TestSkipOutfit(t *testing.T) {
	f := setupFixture(t)

	addBasics(f)
	first := f.do(http.MethodPost, "/outfits/skip", SkipOutfitIn{Prompt: "red dress"})
	second := f.do(http.MethodPost, "/outfits/skip", SkipOutfitIn{Prompt: "red dress"})
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	require.Equal(t, http.StatusOK, second.Code)

	var a, b map[string]candidateOut
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a["candidate"].ID, b["candidate"].ID)
}

func TestSkipOutfitWithoutShoes(t *testing.T) {
	f := setupFixture(t)
	f.wardrobe.Add(f.user.ID, test.Item("Dress", "Slip dress", "red"))

	rec := f.do(http.MethodPost, "/outfits/skip", SkipOutfitIn{Prompt: "red dress"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response["error"])
}

func TestSaveOutfit(t *testing.T) {
	f := setupFixture(t)
	items := addBasics(f)

	rec := f.do(http.MethodPost, "/outfits", SaveOutfitIn{
		Name:     "Office Monday",
		Favorite: true,
		ItemIDs:  []uint{items[2].ID, items[3].ID, items[0].ID},
		Prompt:   services.StrPointer("office"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved models.Outfit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Office Monday", saved.Name)
	assert.Equal(t, models.OutfitStatusSaved, saved.Status)
	require.Len(t, saved.Items, 3)
	assert.Equal(t, models.LayerTop, saved.Items[0].Kind)
	assert.Equal(t, models.LayerBottom, saved.Items[1].Kind)
	assert.Equal(t, models.LayerShoes, saved.Items[2].Kind)
	assert.Equal(t, items[0].ID, saved.Items[2].ClothingID)

	rec = f.do(http.MethodGet, "/outfits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed map[string][]models.Outfit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed["outfits"], 1)
	assert.Equal(t, int64(1), f.reg.Value(metrics.OutfitSaved, map[string]string{"status": models.OutfitStatusSaved}))
}

func TestSaveOutfitDefaultsName(t *testing.T) {
	f := setupFixture(t)
	items := addBasics(f)

	rec := f.do(http.MethodPost, "/outfits", SaveOutfitIn{ItemIDs: []uint{items[0].ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved models.Outfit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.Name)
}

func TestSaveOutfitErrors(t *testing.T) {
	f := setupFixture(t)
	items := addBasics(f)
	foreign := f.wardrobe.Add(2, test.Item("Top", "Shirt"))

	rec := f.do(http.MethodPost, "/outfits", SaveOutfitIn{Name: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/outfits", SaveOutfitIn{Name: "x", ItemIDs: []uint{items[0].ID, items[0].ID}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/outfits", SaveOutfitIn{Name: "x", ItemIDs: []uint{items[0].ID, foreign[0].ID}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.wardrobe.SaveErr = errors.New("db down")
	rec = f.do(http.MethodPost, "/outfits", SaveOutfitIn{Name: "x", ItemIDs: []uint{items[0].ID}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response["error"])

	outfits, _ := f.wardrobe.ListOutfits(context.Background(), f.user.ID)
	assert.Empty(t, outfits)
}

func TestSuggestOutfit(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/outfits/suggest", SuggestOutfitIn{Prompt: "rainy office day"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, f.enqueuer.Tasks, 1)
	assert.Equal(t, tasks.TypeOutfitSuggest, f.enqueuer.Tasks[0].Type())

	var payload tasks.OutfitSuggestionPayload
	require.NoError(t, json.Unmarshal(f.enqueuer.Tasks[0].Payload(), &payload))
	assert.Equal(t, f.user.ID, payload.UserID)
	assert.Equal(t, "rainy office day", payload.Prompt)

	rec = f.do(http.MethodPost, "/outfits/suggest", SuggestOutfitIn{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.enqueuer.Err = errors.New("redis down")
	rec = f.do(http.MethodPost, "/outfits/suggest", SuggestOutfitIn{Prompt: "casual"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupFixture(t)
	f.do(http.MethodPost, "/outfits/parse", PromptIn{Prompt: "casual"})

	rec := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, int64(1), snapshot["http_requests_total{method=POST,path=/outfits/parse,status=2xx}"])
}
