package api

import (
	"net/http"
	"time"

	"github.com/DMarby/placeholder/internal/handler"
	"github.com/DMarby/placeholder/internal/health"
	"github.com/DMarby/placeholder/internal/image"
	"github.com/DMarby/placeholder/internal/logger"
	"github.com/DMarby/placeholder/internal/tracing"
	"github.com/gorilla/mux"
)

// API is a http api
type API struct {
	ImageProcessor image.Processor
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
	AllowedHosts   []string
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Width and height are matched loosely so that anything that isn't a valid size reaches the validator
const imagePath = "/image/{width:[^/x]+}x{height:[^/.]+}{extension:(?:\\.[^/]*)?}"

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	router.Handle("/", handler.Handler(a.indexHandler)).Methods("GET", "HEAD").Name("index")

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Placeholder images, with and without a trailing slash
	router.Handle(imagePath, handler.Handler(a.imageHandler)).Methods("GET", "HEAD").Name("image")
	router.Handle(imagePath+"/", handler.Handler(a.imageHandler)).Methods("GET", "HEAD").Name("image_slash")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, metrics, tracing, setting CORS and security headers, host validation and handler execution timeout
	var h http.Handler = http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out.")
	h = handler.AllowedHosts(a.AllowedHosts, h)
	h = handler.FrameOptions(h)
	h = handler.CORS([]string{"ETag"}, h)
	h = handler.Tracer(a.Tracer, h, routeMatcher)
	h = handler.Metrics(h, routeMatcher)
	h = handler.Logger(a.Log, h)
	h = handler.Recovery(a.Log, h)

	return handler.AddRequestID(h)
}

func (a *API) indexHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello World"))

	return nil
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
