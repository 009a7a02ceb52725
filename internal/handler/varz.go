package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"tailscale.com/tsweb"
)

// VarzHandler writes the expvar metrics followed by the prometheus default registry, both in the prometheus text format
func VarzHandler(w http.ResponseWriter, r *http.Request) {
	tsweb.VarzHandler(w, r)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return
	}

	encoder := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return
		}
	}
}
