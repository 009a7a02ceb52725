package cache

import (
	"context"
	"errors"
	"time"

	"github.com/DMarby/placeholder/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry is kept unless a backend is configured otherwise
const DefaultTTL = time.Hour

// Provider is an interface for getting and setting cached objects.
// Expiry is configured on the backend, not per entry.
type Provider interface {
	Get(ctx context.Context, key string) (data []byte, err error)
	Set(ctx context.Context, key string, data []byte) (err error)
	Shutdown()
}

// LoaderFunc is a function for loading data into a cache
type LoaderFunc func(ctx context.Context, key string) (data []byte, err error)

// Lookup results
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Lookups counts cache lookups made through Auto, by result
var Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "placeholder_cache_lookups_total",
	Help: "Cache lookups by result (hit, miss, error).",
}, []string{"result"})

// Auto is a cache that automatically attempts to load objects if they don't exist
type Auto struct {
	Tracer      *tracing.Tracer
	Provider    Provider
	Loader      LoaderFunc
	lookupGroup singleflight.Group
}

// Get returns an object from the cache if it exists, otherwise it loads it into the cache and returns it
func (a *Auto) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, span := a.Tracer.Start(ctx, "cache.Auto.Get")
	defer span.End()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	data, err = a.Provider.Get(ctx, key)
	switch {
	case err == nil:
		Lookups.WithLabelValues(resultHit).Inc()
		return
	case !errors.Is(err, ErrNotFound):
		Lookups.WithLabelValues(resultError).Inc()
		return
	}

	Lookups.WithLabelValues(resultMiss).Inc()

	// Concurrent misses for the same key share a single load.
	// The load is detached from the caller that started it, so one caller going away doesn't fail the others.
	loadCtx := context.WithoutCancel(ctx)
	results := a.lookupGroup.DoChan(key, func() (interface{}, error) {
		data, err := a.Loader(loadCtx, key)
		if err != nil {
			return nil, err
		}

		err = a.Provider.Set(loadCtx, key, data)
		if err != nil {
			return nil, err
		}

		return data, nil
	})

	select {
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}

		data, _ = result.Val.([]byte)
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Errors
var (
	ErrNotFound   = errors.New("not found in cache")
	ErrInvalidKey = errors.New("invalid cache key")
)
