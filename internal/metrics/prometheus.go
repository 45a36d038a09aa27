package metrics

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "responder"

type promMetrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	faults        *prometheus.CounterVec
	counterResets prometheus.Counter
}

// newPromMetrics registers the collectors with reg. A nil reg leaves them
// unregistered, which is what most specs want.
func newPromMetrics(reg prometheus.Registerer) *promMetrics {
	factory := promauto.With(reg)

	return &promMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Responses written, by route pattern and status code.",
		}, []string{"route", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent handling a request, by route pattern.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"route"}),
		faults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_injected_total",
			Help:      "Simulated failures returned, by fault kind.",
		}, []string{"kind"}),
		counterResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "counter_resets_total",
			Help:      "Times the shared error counter was reset.",
		}),
	}
}

// observe is called from request goroutines; client_golang collectors are
// safe for concurrent use.
func (p *promMetrics) observe(event MetricEvent) {
	switch event.Type {
	case EventResponseCompleted:
		p.requests.WithLabelValues(event.Route, strconv.Itoa(event.StatusCode)).Inc()
		p.duration.WithLabelValues(event.Route).Observe(event.Duration.Seconds())
	case EventFaultInjected:
		p.faults.WithLabelValues(event.Fault).Inc()
	case EventCounterReset:
		p.counterResets.Inc()
	}
}

// RegisterCounterGauge exposes the live error counter. read is called on
// every scrape; a read error is reported as NaN.
func RegisterCounterGauge(reg prometheus.Registerer, read func() (int64, error)) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "error_counter",
		Help:      "Current value of the shared error counter.",
	}, func() float64 {
		v, err := read()
		if err != nil {
			return math.NaN()
		}
		return float64(v)
	})

	return reg.Register(gauge)
}
