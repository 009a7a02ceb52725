package memory

import (
	"context"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Provider implements an in-memory LRU cache where entries expire after a fixed TTL
type Provider struct {
	cache *expirable.LRU[string, []byte]
}

// New returns a new Provider instance
// A size of 0 means the cache is unbounded and only evicts on expiry
func New(size int, ttl time.Duration) *Provider {
	return &Provider{
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	data, exists := p.cache.Get(key)
	if !exists {
		return nil, cache.ErrNotFound
	}

	return data, nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.cache.Add(key, data)
	return nil
}

// Len returns the number of entries that have not yet been evicted
func (p *Provider) Len() int {
	return p.cache.Len()
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {
	p.cache.Purge()
}
