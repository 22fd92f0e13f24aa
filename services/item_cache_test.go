package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"outfitapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	items []models.Clothing
	err   error
}

func (s *countingSource) FetchItems(ctx context.Context, userID uint, kind models.LayerKind, limit int) ([]models.Clothing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.items, s.err
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func shoe(id uint) models.Clothing {
	c := models.Clothing{Category: "Shoes", Subcategory: "Sneakers"}
	c.ID = id
	return c
}

func TestCachedItemSourceServesFromCache(t *testing.T) {
	src := &countingSource{items: []models.Clothing{shoe(1), shoe(2)}}
	cached, err := NewCachedItemSource(src, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	items, err := cached.FetchItems(ctx, 1, models.LayerShoes, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// cache writes are asynchronous, so wait until a fetch stops reaching the source
	assert.Eventually(t, func() bool {
		before := src.count()
		got, err := cached.FetchItems(ctx, 1, models.LayerShoes, 10)
		return err == nil && len(got) == 2 && src.count() == before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCachedItemSourceInvalidate(t *testing.T) {
	src := &countingSource{items: []models.Clothing{shoe(1)}}
	cached, err := NewCachedItemSource(src, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Eventually(t, func() bool {
		before := src.count()
		_, err := cached.FetchItems(ctx, 1, models.LayerShoes, 10)
		return err == nil && src.count() == before
	}, 2*time.Second, 10*time.Millisecond)

	src.mu.Lock()
	src.items = []models.Clothing{shoe(1), shoe(3)}
	src.mu.Unlock()
	cached.Invalidate(1)

	before := src.count()
	items, err := cached.FetchItems(ctx, 1, models.LayerShoes, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, before+1, src.count())
}

func TestCachedItemSourcePassesErrors(t *testing.T) {
	src := &countingSource{err: errors.New("db down")}
	cached, err := NewCachedItemSource(src, 0)
	require.NoError(t, err)

	_, err = cached.FetchItems(context.Background(), 1, models.LayerBag, 10)
	assert.Error(t, err)
	_, err = cached.FetchItems(context.Background(), 1, models.LayerBag, 10)
	assert.Error(t, err)
	assert.Equal(t, 2, src.count())
}

func TestItemCacheKey(t *testing.T) {
	key := itemCacheKey{UserID: 4, Generation: 2, Kind: models.LayerShoes, Limit: 60}
	assert.Equal(t, "items:4:2:shoes:60", key.GetCacheKey())
}
