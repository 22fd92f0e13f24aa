package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"outfitapi/models"
	"outfitapi/stylist"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"
)

const defaultItemCacheTTL = 2 * time.Minute

type itemCacheKey struct {
	UserID     uint
	Generation uint64
	Kind       models.LayerKind
	Limit      int
}

// GetCacheKey makes the key readable in the ristretto store.
func (k itemCacheKey) GetCacheKey() string {
	return fmt.Sprintf("items:%d:%d:%s:%d", k.UserID, k.Generation, k.Kind, k.Limit)
}

// CachedItemSource puts a ristretto-backed loadable cache in front of an item
// source. Skip and generate calls for the same prompt hit the same rows, so most
// fetches after the first are served from memory.
type CachedItemSource struct {
	source stylist.ItemSource
	cache  *cache.LoadableCache[[]models.Clothing]
	ttl    time.Duration

	mu          sync.Mutex
	generations map[uint]uint64
}

func NewCachedItemSource(source stylist.ItemSource, ttl time.Duration) (*CachedItemSource, error) {
	if ttl <= 0 {
		ttl = defaultItemCacheTTL
	}
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	c := &CachedItemSource{
		source:      source,
		ttl:         ttl,
		generations: make(map[uint]uint64),
	}
	load := func(ctx context.Context, key any) ([]models.Clothing, []store.Option, error) {
		k, ok := key.(itemCacheKey)
		if !ok {
			return nil, nil, fmt.Errorf("invalid key type provided to item cache: %T", key)
		}
		log.Ctx(ctx).Debug().Uint("user_id", k.UserID).Str("kind", string(k.Kind)).Msg("item cache miss")
		items, err := c.source.FetchItems(ctx, k.UserID, k.Kind, k.Limit)
		return items, []store.Option{store.WithExpiration(c.ttl), store.WithCost(int64(len(items)) + 1)}, err
	}
	c.cache = cache.NewLoadable[[]models.Clothing](
		load,
		cache.New[[]models.Clothing](ristretto_store.NewRistretto(ristrettoCache)),
	)
	return c, nil
}

func (c *CachedItemSource) FetchItems(ctx context.Context, userID uint, kind models.LayerKind, limit int) ([]models.Clothing, error) {
	key := itemCacheKey{UserID: userID, Generation: c.generation(userID), Kind: kind, Limit: limit}
	return c.cache.Get(ctx, key)
}

// Invalidate drops every cached bucket of the user. Old entries become
// unreachable and age out with their TTL.
func (c *CachedItemSource) Invalidate(userID uint) {
	c.mu.Lock()
	c.generations[userID]++
	c.mu.Unlock()
}

func (c *CachedItemSource) generation(userID uint) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}
