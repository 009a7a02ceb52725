package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DMarby/placeholder/internal/handler"
	"github.com/gorilla/mux"
)

func TestRouteMatcher(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/named/{id}", func(w http.ResponseWriter, r *http.Request) {}).Name("named")
	router.HandleFunc("/unnamed/{id}", func(w http.ResponseWriter, r *http.Request) {})
	router.NotFoundHandler = http.NotFoundHandler()

	matcher := &handler.MuxRouteMatcher{Router: router}

	tests := []struct {
		URL      string
		Expected string
	}{
		{"/named/1", "named"},
		{"/unnamed/1", "/unnamed/{id}"},
		{"/missing", "not_found"},
	}

	for _, test := range tests {
		if route := matcher.Match(httptest.NewRequest("GET", test.URL, nil)); route != test.Expected {
			t.Errorf("%s: wrong route %#v", test.URL, route)
		}
	}
}

func TestMetrics(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Name("metrics_test_teapot")

	h := handler.Metrics(router, &handler.MuxRouteMatcher{Router: router})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/teapot", nil))

	rr := httptest.NewRecorder()
	handler.VarzHandler(rr, httptest.NewRequest("GET", "/metrics", nil))

	body := rr.Body.String()
	for _, expected := range []string{
		`http_request_duration_seconds_count{path="metrics_test_teapot",code="418"} 1`,
		"http_requests_in_flight 0",
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("metrics output is missing %#v", expected)
		}
	}
}

func TestRequestHistogram(t *testing.T) {
	histogram := &handler.RequestHistogram{}
	histogram.Add("image", 200, 0)

	var out strings.Builder
	histogram.WritePrometheus(&out, "test_duration_seconds")

	for _, expected := range []string{
		"# TYPE test_duration_seconds histogram",
		`test_duration_seconds_bucket{path="image",code="200",le="0.005"} 1`,
		`test_duration_seconds_bucket{path="image",code="200",le="+Inf"} 1`,
		`test_duration_seconds_count{path="image",code="200"} 1`,
	} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("histogram output is missing %#v", expected)
		}
	}
}
