package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/placeholder/internal/cache"
)

// Provider is a mock cache
// "notfound", "notfounderr" and "seterror" miss, "error" fails, anything else hits with "foo"
type Provider struct{}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	switch key {
	case "notfound", "notfounderr", "seterror":
		return nil, cache.ErrNotFound
	case "error":
		return nil, fmt.Errorf("error")
	}

	return []byte("foo"), nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	if key == "seterror" {
		return fmt.Errorf("seterror")
	}

	return nil
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}

// Broken is a cache where every operation fails
type Broken struct{}

// Get always fails
func (b *Broken) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("cache unavailable")
}

// Set always fails
func (b *Broken) Set(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("cache unavailable")
}

// Shutdown shuts down the cache
func (b *Broken) Shutdown() {}
