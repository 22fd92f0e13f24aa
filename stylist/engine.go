package stylist

import (
	"context"
	"math/rand"

	"outfitapi/lexicon"
	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/prompt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchLimit = 60

const (
	outerwearAvoidChance   = 0.1
	outerwearPreferChance  = 0.85
	outerwearDefaultChance = 0.5
	accessoryDefaultChance = 0.5
)

// ItemSource is the wardrobe the engine reads from. Results are newest first and
// may be shorter than limit.
type ItemSource interface {
	FetchItems(ctx context.Context, userID uint, kind models.LayerKind, limit int) ([]models.Clothing, error)
}

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// globalRand uses the goroutine-safe top level math/rand functions.
type globalRand struct{}

func (globalRand) Intn(n int) int   { return rand.Intn(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Engine composes outfit candidates. It keeps no state between calls and is safe
// for concurrent use.
type Engine struct {
	source  ItemSource
	limit   int
	metrics *metrics.Registry
}

type EngineOption func(*Engine)

func WithFetchLimit(limit int) EngineOption {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

func WithMetrics(reg *metrics.Registry) EngineOption {
	return func(e *Engine) {
		e.metrics = reg
	}
}

func NewEngine(source ItemSource, opts ...EngineOption) *Engine {
	e := &Engine{source: source, limit: DefaultFetchLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type generateConfig struct {
	rnd    Rand
	locked map[models.LayerKind]uint
}

type GenerateOption func(*generateConfig)

// WithRand pins the randomness, mostly for tests.
func WithRand(r Rand) GenerateOption {
	return func(c *generateConfig) {
		if r != nil {
			c.rnd = r
		}
	}
}

// WithLocked keeps the given item for each kind. A lock on an item missing from
// that kind's wardrobe bucket is ignored.
func WithLocked(locked map[models.LayerKind]uint) GenerateOption {
	return func(c *generateConfig) {
		c.locked = locked
	}
}

// generation is the state of one GenerateCandidate call.
type generation struct {
	query       *prompt.PromptQuery
	rnd         Rand
	buckets     map[models.LayerKind][]models.Clothing
	locked      map[models.LayerKind]models.Clothing
	hue         string
	picked      map[models.LayerKind]models.Clothing
	relaxations map[models.LayerKind]Relaxation
}

// GenerateCandidate builds one outfit for the user. It returns nil when no outfit
// can be assembled: no shoes, no usable base, or the context was cancelled.
func (e *Engine) GenerateCandidate(ctx context.Context, query *prompt.PromptQuery, userID uint, opts ...GenerateOption) *Candidate {
	cfg := generateConfig{rnd: globalRand{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if query == nil {
		query = prompt.NewPromptQuery("")
	}
	logger := log.Ctx(ctx).With().Uint("user_id", userID).Logger()

	buckets, err := e.fetch(ctx, userID)
	if err != nil {
		logger.Debug().Err(err).Msg("outfit generation abandoned")
		return nil
	}

	g := &generation{
		query:       query,
		rnd:         cfg.rnd,
		buckets:     buckets,
		locked:      resolveLocks(buckets, cfg.locked),
		picked:      make(map[models.LayerKind]models.Clothing),
		relaxations: make(map[models.LayerKind]Relaxation),
	}
	if query.Palette.Kind == prompt.PaletteMonochrome && query.Palette.Color != nil {
		g.hue = *query.Palette.Color
	}

	if !g.assemble() {
		e.metrics.Inc(ctx, metrics.OutfitEmpty, nil)
		logger.Debug().Msg("no outfit could be assembled")
		return nil
	}

	for kind, r := range g.relaxations {
		e.metrics.Inc(ctx, metrics.OutfitRelaxed, map[string]string{"kind": string(kind), "reason": string(r.Reason)})
	}
	e.metrics.Inc(ctx, metrics.OutfitGenerated, nil)
	candidate := newCandidate(g.picked, g.relaxations)
	logger.Debug().
		Str("candidate_id", candidate.ID).
		Int("items", len(candidate.Items)).
		Str("hue", g.hue).
		Msg("outfit candidate generated")
	return candidate
}

// fetch reads every kind concurrently. A failed read is an empty bucket; only
// cancellation aborts.
func (e *Engine) fetch(ctx context.Context, userID uint) (map[models.LayerKind][]models.Clothing, error) {
	results := make([][]models.Clothing, len(models.AllLayerKinds))
	group, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.AllLayerKinds {
		group.Go(func() error {
			items, err := e.source.FetchItems(gctx, userID, kind, e.limit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.metrics.Inc(gctx, metrics.OutfitFetchFailed, map[string]string{"kind": string(kind)})
				log.Ctx(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("wardrobe fetch failed, using empty pool")
				return nil
			}
			bucket := make([]models.Clothing, 0, len(items))
			for _, item := range items {
				if lexicon.MatchesLayer(item, kind) {
					bucket = append(bucket, item)
				}
			}
			results[i] = bucket
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets := make(map[models.LayerKind][]models.Clothing, len(results))
	for i, kind := range models.AllLayerKinds {
		buckets[kind] = results[i]
	}
	return buckets, nil
}

func resolveLocks(buckets map[models.LayerKind][]models.Clothing, locked map[models.LayerKind]uint) map[models.LayerKind]models.Clothing {
	out := make(map[models.LayerKind]models.Clothing, len(locked))
	for kind, id := range locked {
		for _, item := range buckets[kind] {
			if item.ID == id {
				out[kind] = item
				break
			}
		}
	}
	return out
}

// pick fills kind from its lock or from the band of its prefiltered pool.
func (g *generation) pick(kind models.LayerKind) bool {
	if item, ok := g.locked[kind]; ok {
		g.picked[kind] = item
		return true
	}
	pool, relax := g.prefilter(kind)
	item, ok := g.pickBand(pool, kind)
	if !ok {
		return false
	}
	g.picked[kind] = item
	if relax.Relaxed() {
		g.relaxations[kind] = relax
	}
	return true
}

func (g *generation) drop(kinds ...models.LayerKind) {
	for _, kind := range kinds {
		delete(g.picked, kind)
		delete(g.relaxations, kind)
	}
}

func (g *generation) assemble() bool {
	if !g.pick(models.LayerShoes) {
		return false
	}

	twoPiece := g.chooseTwoPiece()
	if !g.tryBase(twoPiece) && !g.tryBase(!twoPiece) {
		return false
	}

	if g.rnd.Float64() < g.outerwearChance() {
		g.pick(models.LayerOuterwear)
	}
	for _, kind := range []models.LayerKind{models.LayerBag, models.LayerAccessory} {
		if g.wants(kind) || g.rnd.Float64() < accessoryDefaultChance {
			g.pick(kind)
		}
	}
	return true
}

func (g *generation) chooseTwoPiece() bool {
	_, dressLocked := g.locked[models.LayerDress]
	_, topLocked := g.locked[models.LayerTop]
	_, bottomLocked := g.locked[models.LayerBottom]
	switch {
	case topLocked || bottomLocked:
		return true
	case dressLocked:
		return false
	case g.query.HasBottomRequirement():
		return true
	case g.query.WantsDressBase != nil:
		return !*g.query.WantsDressBase
	}
	return g.rnd.Intn(2) == 0
}

func (g *generation) tryBase(twoPiece bool) bool {
	if !twoPiece {
		if !g.pick(models.LayerDress) {
			return false
		}
		g.inferHue(g.picked[models.LayerDress].Colors, nil)
		return true
	}
	if !g.pick(models.LayerTop) {
		return false
	}
	if !g.pick(models.LayerBottom) {
		g.drop(models.LayerTop)
		return false
	}
	g.inferHue(g.picked[models.LayerTop].Colors, g.picked[models.LayerBottom].Colors)
	return true
}

// inferHue fixes the coherence color of a monochrome request that did not name one,
// preferring a color shared by both base pieces.
func (g *generation) inferHue(first, second []string) {
	if g.query.Palette.Kind != prompt.PaletteMonochrome || g.hue != "" {
		return
	}
	a := lexicon.CanonicalColors(first)
	if len(a) == 0 {
		a = lexicon.CanonicalColors(second)
		second = nil
	}
	if len(a) == 0 {
		return
	}
	shared := lexicon.NewSet(lexicon.CanonicalColors(second)...)
	for _, c := range a {
		if shared.Has(c) {
			g.hue = c
			return
		}
	}
	g.hue = a[0]
}

func (g *generation) wants(kind models.LayerKind) bool {
	_, locked := g.locked[kind]
	return locked || g.query.RequiredKinds.Has(kind)
}

func (g *generation) outerwearChance() float64 {
	switch {
	case g.wants(models.LayerOuterwear):
		return 1
	case g.query.AvoidOuterwear:
		return outerwearAvoidChance
	case g.query.PreferOuterwear:
		return outerwearPreferChance
	}
	return outerwearDefaultChance
}
