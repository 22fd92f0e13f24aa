package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/services"
	"outfitapi/stylist"
	"outfitapi/test"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	e        *echo.Echo
	wardrobe *test.MemoryWardrobe
	users    *test.MemoryUsers
	enqueuer *test.EnqueuerMock
	urlCache *test.URLCacheMock
	reg      *metrics.Registry
	user     models.UserAccount
}

func setupFixture(t *testing.T) *serverFixture {
	t.Helper()
	f := &serverFixture{
		wardrobe: test.NewMemoryWardrobe(),
		enqueuer: &test.EnqueuerMock{},
		urlCache: &test.URLCacheMock{},
		reg:      metrics.NewRegistry(),
		user:     test.FakeUser(1),
	}
	f.users = test.NewMemoryUsers(f.user)
	cached, err := services.NewCachedItemSource(f.wardrobe, time.Minute)
	require.NoError(t, err)

	f.e = SetupServer(ServerDeps{
		Wardrobe:    f.wardrobe,
		Outfits:     f.wardrobe,
		Users:       f.users,
		Engine:      stylist.NewEngine(cached, stylist.WithMetrics(f.reg)),
		AWSService:  test.AWSProviderMock{MockUrl: "https://r2.example.com/direct"},
		URLCache:    f.urlCache,
		Invalidator: cached,
		Enqueuer:    f.enqueuer,
		Metrics:     f.reg,
		JWTSecret:   test.JWTSecret,
		Bucket:      "closet",
	})
	return f
}

func (f *serverFixture) userPk() string {
	return strconv.FormatUint(uint64(f.user.ID), 10)
}

func (f *serverFixture) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	req := test.NewJSONAuthRequest(method, target, f.userPk(), body)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestCreateItemOk(t *testing.T) {
	f := setupFixture(t)

	reqBody := CreateItemIn{
		Category:    "Shoes",
		Subcategory: "Sneakers",
		Colors:      []string{" Navy ", ""},
		Tags:        []string{"Weekend"},
		FileName:    services.StrPointer("IMG_1.jpg"),
	}
	rec := f.do(http.MethodPost, "/wardrobe/items", reqBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response ItemCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Sneakers", response.Item.Name)
	assert.Equal(t, []string{"navy"}, response.Item.Colors)
	assert.Equal(t, []string{"weekend"}, response.Item.Tags)
	assert.Equal(t, []models.LayerKind{models.LayerShoes}, response.Item.Kinds)
	assert.True(t, strings.HasPrefix(response.FileUploadUrl, "https://fakebucketurl.com/wardrobe/1/"), response.FileUploadUrl)

	items, err := f.wardrobe.ListItems(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ImageURL)
	assert.True(t, strings.HasSuffix(*items[0].ImageURL, ".jpg"))
}

func TestCreateItemInvalidInput(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/wardrobe/items", CreateItemIn{Subcategory: "Sneakers"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Category")
}

func TestCreateItemMalformedBody(t *testing.T) {
	f := setupFixture(t)

	req := test.NewJSONAuthRequestRaw(http.MethodPost, "/wardrobe/items", f.userPk(), `{"category": `)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Invalid request body"}`, rec.Body.String())
}

func TestCreateItemUnsupportedImage(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/wardrobe/items", CreateItemIn{Category: "Top", FileName: services.StrPointer("scan.pdf")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	items, _ := f.wardrobe.ListItems(context.Background(), f.user.ID)
	assert.Empty(t, items)
}

func TestCreateItemUnauthorized(t *testing.T) {
	f := setupFixture(t)

	req := test.NewJSONAuthRequest(http.MethodPost, "/wardrobe/items", "", CreateItemIn{Category: "Top"})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = test.NewJSONAuthRequest(http.MethodPost, "/wardrobe/items", "99", CreateItemIn{Category: "Top"})
	rec = httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = test.NewJSONRequest(http.MethodPost, "/wardrobe/items", CreateItemIn{Category: "Top"})
	rec = httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusCreated, rec.Code)
}

func TestListItemsGroupedByKind(t *testing.T) {
	f := setupFixture(t)
	sneaker := test.Item("Shoes", "Sneakers", "white")
	sneaker.ImageURL = services.StrPointer("wardrobe/1/a.jpg")
	f.wardrobe.Add(f.user.ID,
		sneaker,
		test.Item("Top", "Shirt", "blue"),
		test.Item("Misc", "Umbrella"),
	)
	f.wardrobe.Add(2, test.Item("Bottoms", "Jeans", "blue"))

	rec := f.do(http.MethodGet, "/wardrobe/items", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response ItemsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.ByKind[models.LayerShoes], 1)
	require.Len(t, response.ByKind[models.LayerTop], 1)
	assert.Empty(t, response.ByKind[models.LayerBottom])
	require.Len(t, response.Unsorted, 1)
	assert.Equal(t, "Umbrella Misc", response.Unsorted[0].Name)

	shoe := response.ByKind[models.LayerShoes][0]
	require.NotNil(t, shoe.Uri)
	assert.Equal(t, "https://cdn.example.com/wardrobe/1/a.jpg", *shoe.Uri)
	assert.Nil(t, response.ByKind[models.LayerTop][0].Uri)
}

func TestListItemsFallsBackWhenURLCacheFails(t *testing.T) {
	f := setupFixture(t)
	f.urlCache.Err = errors.New("cache broken")
	sneaker := test.Item("Shoes", "Sneakers")
	sneaker.ImageURL = services.StrPointer("wardrobe/1/a.jpg")
	f.wardrobe.Add(f.user.ID, sneaker)

	rec := f.do(http.MethodGet, "/wardrobe/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var response ItemsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.ByKind[models.LayerShoes], 1)
	require.NotNil(t, response.ByKind[models.LayerShoes][0].Uri)
	assert.Equal(t, "https://r2.example.com/direct", *response.ByKind[models.LayerShoes][0].Uri)
}

func TestDeleteItem(t *testing.T) {
	f := setupFixture(t)
	items := f.wardrobe.Add(f.user.ID, test.Item("Top", "Shirt"))
	others := f.wardrobe.Add(2, test.Item("Top", "Shirt"))

	rec := f.do(http.MethodDelete, fmt.Sprintf("/wardrobe/items/%d", items[0].ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodDelete, fmt.Sprintf("/wardrobe/items/%d", items[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodDelete, fmt.Sprintf("/wardrobe/items/%d", others[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodDelete, "/wardrobe/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatedItemsReachTheEngine(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPost, "/outfits/skip", SkipOutfitIn{Prompt: "casual"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	for _, item := range []CreateItemIn{
		{Category: "Shoes", Subcategory: "Sneakers", Colors: []string{"white"}},
		{Category: "Top", Subcategory: "T-shirt", Colors: []string{"black"}},
		{Category: "Bottoms", Subcategory: "Jeans", Colors: []string{"blue"}},
	} {
		rec = f.do(http.MethodPost, "/wardrobe/items", item)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/outfits/skip", SkipOutfitIn{Prompt: "casual"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
