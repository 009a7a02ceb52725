package handler

import (
	"expvar"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
)

var httpRequestsInFlight = expvar.NewInt("gauge_http_requests_in_flight")
var httpRequestDurationSeconds = &RequestHistogram{}

var durationBuckets = []time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
	5 * time.Second,
}

func init() {
	expvar.Publish("http_request_duration_seconds", httpRequestDurationSeconds)
}

// Metrics is a handler that collects request counts and durations per route and status code
func Metrics(h http.Handler, routeMatcher RouteMatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeMatcher.Match(r)

		httpRequestsInFlight.Add(1)
		defer httpRequestsInFlight.Add(-1)

		respMetrics := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			h.ServeHTTP(ww, r)
		})

		httpRequestDurationSeconds.Add(route, respMetrics.Code, respMetrics.Duration)
	})
}

type bucket struct {
	counts        []int64 // cumulative, one per duration bucket
	count         int64
	totalDuration float64
}

// RequestHistogram is an expvar that renders itself as a prometheus histogram
type RequestHistogram struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// Add records a request
func (r *RequestHistogram) Add(path string, code int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%d;%s", code, path)

	if r.buckets == nil {
		r.buckets = make(map[string]*bucket)
	}

	b, exists := r.buckets[key]
	if !exists {
		b = &bucket{counts: make([]int64, len(durationBuckets))}
		r.buckets[key] = b
	}

	b.count++
	b.totalDuration += duration.Seconds()

	for i, limit := range durationBuckets {
		if duration <= limit {
			b.counts[i]++
		}
	}
}

// WritePrometheus writes the histogram in the prometheus text format
func (r *RequestHistogram) WritePrometheus(w io.Writer, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(w, "# TYPE %s histogram\n", prefix)

	keys := make([]string, 0, len(r.buckets))
	for key := range r.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		b := r.buckets[key]
		code, path, ok := strings.Cut(key, ";")
		if !ok {
			continue
		}

		for i, limit := range durationBuckets {
			fmt.Fprintf(w, "%s_bucket{path=%q,code=%q,le=%q} %d\n", prefix, path, code, fmt.Sprintf("%g", limit.Seconds()), b.counts[i])
		}

		fmt.Fprintf(w, "%s_bucket{path=%q,code=%q,le=\"+Inf\"} %d\n", prefix, path, code, b.count)
		fmt.Fprintf(w, "%s_count{path=%q,code=%q} %d\n", prefix, path, code, b.count)
		fmt.Fprintf(w, "%s_sum{path=%q,code=%q} %g\n", prefix, path, code, b.totalDuration)
	}
}

func (r *RequestHistogram) String() string {
	return "{}"
}
