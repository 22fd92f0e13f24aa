package metrics

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter names shared by the API, the worker and the engine.
const (
	OutfitGenerated     = "outfit_candidates_total"
	OutfitEmpty         = "outfit_candidates_empty_total"
	OutfitRelaxed       = "outfit_relaxations_total"
	OutfitFetchFailed   = "outfit_fetch_errors_total"
	OutfitSaved         = "outfits_saved_total"
	HTTPRequests        = "http_requests_total"
	HTTPRequestErrors   = "http_requests_errors_total"
	SuggestionsEnqueued = "outfit_suggestions_enqueued_total"
)

// Registry keeps counters for the /metrics endpoint and mirrors every increment
// to an OpenTelemetry counter of the same name.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	meter    metric.Meter
	otel     map[string]metric.Int64Counter
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		meter:    otel.GetMeterProvider().Meter("outfitapi"),
		otel:     make(map[string]metric.Int64Counter),
	}
}

func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + labels[k]
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

// Inc adds one to the series. A nil registry is a no-op so callers can skip wiring it.
func (r *Registry) Inc(ctx context.Context, name string, labels map[string]string) {
	r.Add(ctx, name, labels, 1)
}

func (r *Registry) Add(ctx context.Context, name string, labels map[string]string, n int64) {
	if r == nil {
		return
	}
	r.series(seriesKey(name, labels)).Add(n)

	if inst := r.instrument(name); inst != nil {
		attrs := make([]attribute.KeyValue, 0, len(labels))
		for k, v := range labels {
			attrs = append(attrs, attribute.String(k, v))
		}
		inst.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

// Value returns the current count of a series, zero when it was never touched.
func (r *Registry) Value(name string, labels map[string]string) int64 {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c := r.counters[seriesKey(name, labels)]; c != nil {
		return c.Load()
	}
	return 0
}

func (r *Registry) series(key string) *atomic.Int64 {
	r.mu.RLock()
	c := r.counters[key]
	r.mu.RUnlock()
	if c != nil {
		return c
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c = r.counters[key]; c == nil {
		c = new(atomic.Int64)
		r.counters[key] = c
	}
	return c
}

func (r *Registry) instrument(name string) metric.Int64Counter {
	r.mu.RLock()
	inst := r.otel[name]
	r.mu.RUnlock()
	if inst != nil {
		return inst
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst = r.otel[name]; inst == nil {
		ctr, err := r.meter.Int64Counter(name)
		if err != nil {
			return nil
		}
		r.otel[name] = ctr
		inst = ctr
	}
	return inst
}

// Snapshot copies every series into a plain map.
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	if r == nil {
		return out
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, v := range r.counters {
		out[k] = v.Load()
	}
	return out
}

// EchoHandler serves the snapshot as JSON.
func (r *Registry) EchoHandler(c echo.Context) error {
	return c.JSON(200, r.Snapshot())
}

// StatusClass buckets an HTTP status code for labels.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return "1xx"
}
