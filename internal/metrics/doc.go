// Package metrics collects per-route request statistics for the responder.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Request counts per route pattern
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//   - Injected faults by kind and counter resets
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the request path. Every event updates both an in-memory snapshot
// (served as JSON by Handler) and a set of Prometheus series registered with
// the Registerer passed to NewCollector (served by PrometheusHandler).
//
// Example usage:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(1000, logger, reg)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Route:      "/code/{code}/{$}",
//		Duration:   150 * time.Microsecond,
//		StatusCode: 503,
//	})
//
//	snapshot := collector.Snapshot()
//
// On context cancellation the collector drains buffered events before it
// stops, so nothing emitted before shutdown is lost.
package metrics
