package image

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/DMarby/placeholder/internal/tracing"
)

// Cache is an image cache
type Cache = cache.Auto

// NewCache instantiates a cache that renders missing images with the given renderer
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, renderer Renderer) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader: func(ctx context.Context, key string) (data []byte, err error) {
			ctx, span := tracer.Start(ctx, "image.Cache.Loader")
			defer span.End()

			task, err := ParseKey(key)
			if err != nil {
				return nil, err
			}

			return renderer.Render(ctx, task)
		},
	}
}

// ParseKey turns a cache key back into the task it was built from
func ParseKey(key string) (*Task, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %s", cache.ErrInvalidKey, key)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cache.ErrInvalidKey, key)
	}

	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cache.ErrInvalidKey, key)
	}

	var format OutputFormat
	switch parts[2] {
	case "PNG":
		format = PNG
	case "JPEG":
		format = JPEG
	case "GIF":
		format = GIF
	default:
		return nil, fmt.Errorf("%w: %s", cache.ErrInvalidKey, key)
	}

	return NewTask(width, height, format), nil
}
