package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/DMarby/placeholder/internal/api"
	"github.com/DMarby/placeholder/internal/cache"
	"github.com/DMarby/placeholder/internal/cache/file"
	"github.com/DMarby/placeholder/internal/cache/memory"
	"github.com/DMarby/placeholder/internal/cache/redis"
	"github.com/DMarby/placeholder/internal/cache/spaces"
	"github.com/DMarby/placeholder/internal/cmd"
	"github.com/DMarby/placeholder/internal/health"
	"github.com/DMarby/placeholder/internal/image/raster"
	"github.com/DMarby/placeholder/internal/logger"
	"github.com/DMarby/placeholder/internal/metrics"
	"github.com/DMarby/placeholder/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Commandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", ":8082", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")
	debug         = flag.Bool("debug", false, "debug mode, logs at debug level and exposes the profiling endpoints")
	allowedHosts  = flag.String("allowed-hosts", "", "comma separated list of hosts to serve, a leading dot matches subdomains (default any host)")

	// Rendering
	workers = flag.Int("workers", runtime.NumCPU(), "number of images rendered concurrently")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use (memory, redis, file, spaces)")
	cacheTTL     = flag.Duration("cache-ttl", cache.DefaultTTL, "how long rendered images are cached for")

	// Cache - Memory
	cacheMemorySize = flag.Int("cache-memory-size", 1000, "maximum number of images in the memory cache, 0 for no limit")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")

	// Cache - File
	cacheFilePath = flag.String("cache-file-path", "./cache", "directory to store cached images in")

	// Cache - Spaces
	cacheSpacesSpace          = flag.String("cache-spaces-space", "", "digitalocean space to use")
	cacheSpacesEndpoint       = flag.String("cache-spaces-endpoint", "", "spaces endpoint, e.g. https://ams3.digitaloceanspaces.com")
	cacheSpacesAccessKey      = flag.String("cache-spaces-access-key", "", "spaces access key")
	cacheSpacesSecretKey      = flag.String("cache-spaces-secret-key", "", "spaces secret key")
	cacheSpacesForcePathStyle = flag.Bool("cache-spaces-force-path-style", false, "use path style addressing, for s3 compatible storage other than spaces")
	cacheSpacesPrefix         = flag.String("cache-spaces-prefix", "placeholder/", "prefix for the cached objects")
)

const serviceName = "placeholder"

func main() {
	// Parse environment variables
	envy.Parse("PLACEHOLDER")

	// Parse commandline flags
	flag.Parse()

	if *debug {
		*loglevel = zap.DebugLevel
	}

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	// Initialize tracing
	tracer, err := tracing.New(shutdownCtx, log, serviceName)
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(context.Background())

	// Initialize the cache
	cacheProvider, err := setupCache(shutdownCtx, tracer)
	if err != nil {
		log.Fatalf("error initializing cache: %s", err)
	}
	defer cacheProvider.Shutdown()

	// Initialize the image processor
	imageProcessorCtx, imageProcessorCancel := context.WithCancel(context.Background())
	defer imageProcessorCancel()

	renderer := raster.NewRenderer()
	imageProcessor := raster.New(imageProcessorCtx, log.Named("processor"), tracer, *workers, renderer, cacheProvider)

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Cache:    cacheProvider,
		Renderer: renderer,
		Log:      log.Named("health"),
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen, *debug)

	// Start and listen on http
	api := &api.API{
		ImageProcessor: imageProcessor,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
		AllowedHosts:   cmd.SplitList(*allowedHosts),
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", *listen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), cmd.WriteTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}

func setupCache(ctx context.Context, tracer *tracing.Tracer) (cacheProvider cache.Provider, err error) {
	ttl := *cacheTTL
	if ttl < 0 {
		return nil, fmt.Errorf("invalid cache ttl %s", ttl)
	}

	switch *cacheBackend {
	case "memory":
		cacheProvider = memory.New(*cacheMemorySize, ttl)
	case "redis":
		cacheProvider, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, ttl)
	case "file":
		cacheProvider, err = file.New(*cacheFilePath, ttl)
	case "spaces":
		spacesCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		cacheProvider, err = spaces.New(spacesCtx, *cacheSpacesSpace, *cacheSpacesEndpoint, *cacheSpacesAccessKey, *cacheSpacesSecretKey, *cacheSpacesForcePathStyle, *cacheSpacesPrefix, ttl)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	return
}
