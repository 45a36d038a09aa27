package metrics_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/angeloszaimis/responder/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		reg       *prometheus.Registry
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		reg = prometheus.NewRegistry()
		collector = metrics.NewCollector(100, log, reg)
	})

	AfterEach(func() {
		cancel()
	})

	Describe("event processing", func() {
		It("should process EventRequestReceived", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:  metrics.EventRequestReceived,
				Route: "/healthz/{$}",
			})

			Eventually(func() int64 {
				return collector.Snapshot().Routes["/healthz/{$}"].Requests
			}).Should(Equal(int64(1)))
		})

		It("should process EventResponseCompleted", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventResponseCompleted,
				Timestamp:  time.Now(),
				Route:      "/code/{code}/{$}",
				Duration:   100 * time.Millisecond,
				StatusCode: 503,
			})

			Eventually(func() int64 {
				return collector.Snapshot().Routes["/code/{code}/{$}"].StatusCodes[503]
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot().Routes["/code/{code}/{$}"].AvgResponse).To(Equal(100 * time.Millisecond))

			Expect(testutil.GatherAndCount(reg, "responder_requests_total")).To(Equal(1))
			Expect(testutil.GatherAndCount(reg, "responder_request_duration_seconds")).To(Equal(1))
		})

		It("should process EventFaultInjected", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{Type: metrics.EventFaultInjected, Fault: metrics.FaultRandom})
			collector.Emit(metrics.MetricEvent{Type: metrics.EventFaultInjected, Fault: metrics.FaultCount})
			collector.Emit(metrics.MetricEvent{Type: metrics.EventFaultInjected, Fault: metrics.FaultCount})

			Eventually(func() int64 {
				return collector.Snapshot().Faults[metrics.FaultCount]
			}).Should(Equal(int64(2)))

			expected := `
# HELP responder_faults_injected_total Simulated failures returned, by fault kind.
# TYPE responder_faults_injected_total counter
responder_faults_injected_total{kind="count"} 2
responder_faults_injected_total{kind="random"} 1
`
			Expect(testutil.GatherAndCompare(reg, strings.NewReader(expected), "responder_faults_injected_total")).To(Succeed())
		})

		It("should process EventCounterReset", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{Type: metrics.EventCounterReset})

			Eventually(func() int64 {
				return collector.Snapshot().CounterResets
			}).Should(Equal(int64(1)))
		})

		It("should drain events on context cancellation", func() {
			for i := 0; i < 5; i++ {
				collector.Emit(metrics.MetricEvent{
					Type:  metrics.EventRequestReceived,
					Route: "/healthz/{$}",
				})
			}

			cancel()
			collector.Start(ctx)

			Eventually(func() int64 {
				return collector.Snapshot().Routes["/healthz/{$}"].Requests
			}).Should(Equal(int64(5)))
		})
	})

	Describe("Emit", func() {
		It("should drop events instead of blocking when the buffer is full", func() {
			small := metrics.NewCollector(1, log, nil)
			done := make(chan struct{})

			go func() {
				defer close(done)
				for i := 0; i < 10; i++ {
					small.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Route: "r"})
				}
			}()

			Eventually(done).Should(BeClosed())
		})

		It("should keep Prometheus series exact when the buffer is full", func() {
			smallReg := prometheus.NewRegistry()
			small := metrics.NewCollector(1, log, smallReg)

			for i := 0; i < 10; i++ {
				small.Emit(metrics.MetricEvent{
					Type:       metrics.EventResponseCompleted,
					Route:      "/code/{code}/{$}",
					Duration:   time.Millisecond,
					StatusCode: 503,
				})
			}
			small.Emit(metrics.MetricEvent{Type: metrics.EventFaultInjected, Fault: metrics.FaultRandom})
			small.Emit(metrics.MetricEvent{Type: metrics.EventCounterReset})

			expected := `
# HELP responder_requests_total Responses written, by route pattern and status code.
# TYPE responder_requests_total counter
responder_requests_total{code="503",route="/code/{code}/{$}"} 10
# HELP responder_faults_injected_total Simulated failures returned, by fault kind.
# TYPE responder_faults_injected_total counter
responder_faults_injected_total{kind="random"} 1
# HELP responder_counter_resets_total Times the shared error counter was reset.
# TYPE responder_counter_resets_total counter
responder_counter_resets_total 1
`
			Expect(testutil.GatherAndCompare(smallReg, strings.NewReader(expected),
				"responder_requests_total", "responder_faults_injected_total", "responder_counter_resets_total")).To(Succeed())
		})
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Route: "/healthz/{$}"})
			Eventually(func() int64 { return collector.Snapshot().TotalRequests }).Should(Equal(int64(1)))

			w := httptest.NewRecorder()
			collector.Handler()(w, httptest.NewRequest(http.MethodGet, "/stats/", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

			var snap metrics.Snapshot
			Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.TotalRequests).To(Equal(int64(1)))
		})
	})

	Describe("PrometheusHandler", func() {
		It("should expose registered series", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{Type: metrics.EventCounterReset})
			Eventually(func() int64 { return collector.Snapshot().CounterResets }).Should(Equal(int64(1)))

			w := httptest.NewRecorder()
			metrics.PrometheusHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("responder_counter_resets_total 1"))
		})
	})

	Describe("RegisterCounterGauge", func() {
		It("should report the live value", func() {
			value := int64(7)
			Expect(metrics.RegisterCounterGauge(reg, func() (int64, error) { return value, nil })).To(Succeed())

			expected := `
# HELP responder_error_counter Current value of the shared error counter.
# TYPE responder_error_counter gauge
responder_error_counter 7
`
			Expect(testutil.GatherAndCompare(reg, strings.NewReader(expected), "responder_error_counter")).To(Succeed())
		})

		It("should report NaN when the counter cannot be read", func() {
			gaugeReg := prometheus.NewRegistry()
			Expect(metrics.RegisterCounterGauge(gaugeReg, func() (int64, error) {
				return 0, errors.New("poisoned")
			})).To(Succeed())

			families, err := gaugeReg.Gather()
			Expect(err).NotTo(HaveOccurred())
			Expect(families).To(HaveLen(1))
			Expect(math.IsNaN(families[0].GetMetric()[0].GetGauge().GetValue())).To(BeTrue())
		})

		It("should refuse a second registration", func() {
			read := func() (int64, error) { return 0, nil }
			Expect(metrics.RegisterCounterGauge(reg, read)).To(Succeed())
			Expect(metrics.RegisterCounterGauge(reg, read)).NotTo(Succeed())
		})
	})
})
