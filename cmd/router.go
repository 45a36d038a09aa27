package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angeloszaimis/responder/internal/metrics"
)

const statsPath = "/stats/"

// setupRouter puts the metrics endpoints in front of the responder. Paths
// are matched exactly so that every other request, clean or not, reaches
// the responder untouched and gets its 404 from there.
func setupRouter(responder http.Handler, collector *metrics.Collector, gatherer prometheus.Gatherer, metricsPath string) http.Handler {
	if collector == nil {
		return responder
	}

	prom := metrics.PrometheusHandler(gatherer)
	stats := collector.Handler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case metricsPath:
			prom.ServeHTTP(w, r)
		case statsPath:
			stats(w, r)
		default:
			responder.ServeHTTP(w, r)
		}
	})
}
