package metrics

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/DMarby/placeholder/internal/handler"
	"github.com/DMarby/placeholder/internal/health"
	"github.com/DMarby/placeholder/internal/logger"
)

// Router returns the handler for the metrics and healthcheck endpoints, with the profiling endpoints when debug is enabled
func Router(healthChecker *health.Checker, debug bool) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/metrics", handler.VarzHandler)
	router.Handle("/health", handler.Health(healthChecker))

	if debug {
		router.HandleFunc("/debug/pprof/", pprof.Index)
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return router
}

// Serve starts an http server for metrics and healthchecks, and blocks until the context is done
func Serve(ctx context.Context, log *logger.Logger, healthChecker *health.Checker, listenAddress string, debug bool) {
	server := &http.Server{
		Addr:     listenAddress,
		Handler:  Router(healthChecker, debug),
		ErrorLog: logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Infof("shutting down the metrics http server: %s", err)
		}
	}()

	log.Infof("metrics http server listening on %s", listenAddress)

	<-ctx.Done()

	if err := server.Close(); err != nil {
		log.Warnf("error shutting down metrics http server: %s", err)
	}
}
