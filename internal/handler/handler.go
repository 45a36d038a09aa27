package handler

import (
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/angeloszaimis/responder/internal/assets"
	"github.com/angeloszaimis/responder/internal/metrics"
	"github.com/angeloszaimis/responder/internal/tracing"
)

const requestIDHeader = "X-Request-ID"

// ErrorCounter is the shared state behind /error/count/.
type ErrorCounter interface {
	IncrementAndCheck(threshold int64) (bool, error)
	Reset() error
}

// FaultInjector decides the outcome of /error/random/.
type FaultInjector interface {
	ShouldFail(percent int) bool
}

type ResponderHandler struct {
	logger           *slog.Logger
	counter          ErrorCounter
	injector         FaultInjector
	metricsCollector *metrics.Collector
	tracer           trace.Tracer
	mux              *http.ServeMux
	known            map[string]bool
}

type Option func(*ResponderHandler)

// WithTracerProvider records request spans on tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *ResponderHandler) {
		h.tracer = tracing.Tracer(tp)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

// NewResponderHandler builds the responder's route table. collector may be
// nil to disable metrics.
func NewResponderHandler(logger *slog.Logger, counter ErrorCounter, injector FaultInjector, collector *metrics.Collector, opts ...Option) *ResponderHandler {
	h := &ResponderHandler{
		logger:           logger,
		counter:          counter,
		injector:         injector,
		metricsCollector: collector,
		tracer:           tracing.Tracer(nil),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.mux = h.routes(assets.Home, assets.Stylesheet)
	h.known = make(map[string]bool, len(Routes))
	for _, pattern := range Routes {
		h.known[pattern] = true
	}

	return h
}

func (h *ResponderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)

	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "responder.request",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
			attribute.String("responder.request_id", requestID),
		))
	defer span.End()
	r = r.WithContext(ctx)
	// An enclosing mux may already have stamped its own pattern.
	r.Pattern = ""

	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	if h.matches(r) {
		h.mux.ServeHTTP(wrapped, r)
	} else {
		http.NotFound(wrapped, r)
	}

	route := r.Pattern
	if route == "" {
		route = RouteUnmatched
	}
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", wrapped.statusCode),
	)

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
		Route:     route,
	})
	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Route:      route,
		Duration:   duration,
		StatusCode: wrapped.statusCode,
	})

	h.logger.Info("Handled request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("route", route),
		slog.Int("status", wrapped.statusCode),
		slog.Duration("duration", duration),
		slog.String("request_id", requestID),
		slog.String("trace_id", tracing.TraceIDFromContext(ctx)))
}

// matches reports whether r names a route exactly. Every route is GET-only,
// and ServeMux's 301s for unclean paths or a missing trailing slash are
// answered as unknown paths instead.
func (h *ResponderHandler) matches(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if !isCleanPath(r.URL.Path) {
		return false
	}

	_, pattern := h.mux.Handler(r)
	return h.known[pattern]
}

func isCleanPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}

	cleaned := path.Clean(p)
	if p[len(p)-1] == '/' && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned == p
}

func (h *ResponderHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	h.metricsCollector.Emit(event)
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.statusCode = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}
