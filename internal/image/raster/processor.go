package raster

import (
	"context"
	"expvar"
	"fmt"
	"math"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/DMarby/placeholder/internal/image"
	"github.com/DMarby/placeholder/internal/logger"
	"github.com/DMarby/placeholder/internal/queue"
	"github.com/DMarby/placeholder/internal/tracing"
)

// Processor serves placeholder images from a cache, rendering missing ones on a bounded worker queue
type Processor struct {
	queue  *queue.Queue
	cache  *image.Cache
	tracer *tracing.Tracer
}

var (
	queueSize      = expvar.NewInt("gauge_image_processor_queue_size")
	renderedImages = expvar.NewMap("counter_labelmap_dimensions_image_processor_rendered_images")
)

// New initializes a new processor instance
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, workers int, renderer image.Renderer, cacheProvider cache.Provider) *Processor {
	workerQueue := queue.New(ctx, workers, taskRenderer(renderer))
	instance := &Processor{
		queue:  workerQueue,
		tracer: tracer,
	}
	instance.cache = image.NewCache(tracer, cacheProvider, instance)

	go workerQueue.Run()
	log.Infof("starting render worker queue with %d workers", workers)

	return instance
}

// ProcessImage returns the encoded image for a task, rendering and caching it on a miss
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "raster.ProcessImage")
	defer span.End()

	data, err := p.cache.Get(ctx, task.Key())
	if err != nil {
		return nil, fmt.Errorf("error getting image from cache: %w", err)
	}

	return data, nil
}

// Render renders an image on the worker queue, bypassing the cache
func (p *Processor) Render(ctx context.Context, task *image.Task) ([]byte, error) {
	queueSize.Add(1)
	defer queueSize.Add(-1)

	defer renderedImages.Add(dimensionBucket(task.Width, task.Height), 1)

	result, err := p.queue.Process(ctx, task)
	if err != nil {
		return nil, err
	}

	data, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return data, nil
}

// dimensionBucket rounds the largest side to the nearest 500 pixels
func dimensionBucket(width, height int) string {
	return fmt.Sprintf("%0.f", math.Max(math.Round(float64(width)/500)*500, math.Round(float64(height)/500)*500))
}

func taskRenderer(renderer image.Renderer) queue.HandlerFunc {
	return func(ctx context.Context, data interface{}) (interface{}, error) {
		task, ok := data.(*image.Task)
		if !ok {
			return nil, fmt.Errorf("invalid data")
		}

		return renderer.Render(ctx, task)
	}
}
