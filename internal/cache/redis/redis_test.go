package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/DMarby/placeholder/internal/cache/redis"
	"github.com/DMarby/placeholder/internal/logger"
	"github.com/DMarby/placeholder/internal/tracing/test"
	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

const poolSize = 2

func TestRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	server := miniredis.RunT(t)

	provider, err := redis.New(ctx, test.Tracer(log), server.Addr(), poolSize, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("get item", func(t *testing.T) {
		if err := provider.Set(ctx, "200.100.PNG", []byte("bar")); err != nil {
			t.Fatal(err)
		}

		data, err := provider.Get(ctx, "200.100.PNG")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("sets the ttl", func(t *testing.T) {
		if ttl := server.TTL("200.100.PNG"); ttl != time.Hour {
			t.Fatalf("wrong ttl %s", ttl)
		}
	})

	t.Run("item expires", func(t *testing.T) {
		server.FastForward(time.Hour + time.Second)

		_, err := provider.Get(ctx, "200.100.PNG")
		if err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		_, err := provider.Get(ctx, "notfound")
		if err == nil {
			t.Fatal("no error")
		}

		if err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("get error", func(t *testing.T) {
		provider.Shutdown()
		_, err := provider.Get(ctx, "notfound")
		if err == nil {
			t.Fatal("no error")
		}
	})
}

func TestRedisWithoutTTL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	server := miniredis.RunT(t)

	provider, err := redis.New(ctx, test.Tracer(log), server.Addr(), poolSize, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	if err := provider.Set(ctx, "foo", []byte("bar")); err != nil {
		t.Fatal(err)
	}

	if ttl := server.TTL("foo"); ttl != 0 {
		t.Fatalf("unexpected ttl %s", ttl)
	}
}

func TestNew(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := redis.New(ctx, nil, "", 10, time.Hour)
	if err == nil {
		t.Fatal("no error")
	}
}
