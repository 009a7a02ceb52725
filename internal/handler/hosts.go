package handler

import (
	"net"
	"net/http"
	"strings"
)

// AllowedHosts is a handler that rejects requests whose Host header doesn't match any of the patterns.
// A pattern is either "*", an exact host, or a host starting with a dot which matches the domain and all its subdomains.
// An empty list allows every host.
func AllowedHosts(patterns []string, next http.Handler) http.Handler {
	if len(patterns) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hostAllowed(r.Host, patterns) {
			w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hostAllowed(host string, patterns []string) bool {
	host = strings.ToLower(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	if host == "" {
		return false
	}

	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.Trim(pattern, "[]"))

		switch {
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "."):
			if host == pattern[1:] || strings.HasSuffix(host, pattern) {
				return true
			}
		case host == pattern:
			return true
		}
	}

	return false
}
