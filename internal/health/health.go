package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/DMarby/placeholder/internal/image"
	"github.com/DMarby/placeholder/internal/logger"
)

const checkInterval = 10 * time.Second
const checkTimeout = 8 * time.Second

// Key that is never written, so a healthy cache answers with a clean miss
const cacheCheckKey = "healthcheck"

// Checker is a periodic health checker
type Checker struct {
	Ctx      context.Context
	Cache    cache.Provider
	Renderer image.Renderer
	Log      *logger.Logger
	status   Status
	mutex    sync.RWMutex
}

// Status contains the healthcheck status
type Status struct {
	Healthy  bool   `json:"healthy"`
	Cache    string `json:"cache,omitempty"`
	Renderer string `json:"renderer,omitempty"`
}

// Run runs a check right away, then keeps checking in the background until the context is done
func (c *Checker) Run() {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.runCheck()
			case <-c.Ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	c.runCheck()
}

// Status returns the status of the health checks
func (c *Checker) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.status
}

func (c *Checker) unknownStatus() Status {
	status := Status{Healthy: false}
	if c.Cache != nil {
		status.Cache = "unknown"
	}

	if c.Renderer != nil {
		status.Renderer = "unknown"
	}

	return status
}

func (c *Checker) runCheck() {
	ctx, cancel := context.WithTimeout(c.Ctx, checkTimeout)
	defer cancel()

	channel := make(chan Status, 1)
	go c.check(ctx, channel)

	select {
	case <-ctx.Done():
		c.mutex.Lock()
		c.status = c.unknownStatus()
		c.mutex.Unlock()
		c.Log.Errorw("healthcheck timed out")
	case status, ok := <-channel:
		if !ok {
			return
		}

		c.mutex.Lock()
		c.status = status
		c.mutex.Unlock()

		if !status.Healthy {
			c.Log.Errorw("healthcheck error",
				"status", status,
			)
		}
	}
}

func (c *Checker) check(ctx context.Context, channel chan Status) {
	defer close(channel)

	status := c.unknownStatus()
	status.Healthy = true

	if c.Cache != nil {
		if _, err := c.Cache.Get(ctx, cacheCheckKey); !errors.Is(err, cache.ErrNotFound) {
			status.Healthy = false
			status.Cache = "unhealthy"
		} else {
			status.Cache = "healthy"
		}
	}

	if ctx.Err() != nil {
		return
	}

	if c.Renderer != nil {
		if _, err := c.Renderer.Render(ctx, image.NewTask(1, 1, image.PNG)); err != nil {
			status.Healthy = false
			status.Renderer = "unhealthy"
		} else {
			status.Renderer = "healthy"
		}
	}

	if ctx.Err() != nil {
		return
	}

	channel <- status
}
