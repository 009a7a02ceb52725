package handler

import (
	"net/http"
	"strings"
)

// NotModified sets the ETag header for a response and checks it against If-None-Match.
// It writes a 304 and returns true if the client already has the current representation, in which case the caller should stop.
func NotModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	quoted := `"` + etag + `"`
	w.Header().Set("ETag", quoted)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	ifNoneMatch := r.Header.Get("If-None-Match")
	if ifNoneMatch == "" || !etagMatches(ifNoneMatch, quoted) {
		return false
	}

	// A 304 must not carry a body or body specific headers
	h := w.Header()
	delete(h, "Content-Type")
	delete(h, "Content-Length")
	w.WriteHeader(http.StatusNotModified)

	return true
}

// etagMatches uses the weak comparison, as required for If-None-Match
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}

		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}

	return false
}
