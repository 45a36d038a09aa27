package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/angeloszaimis/responder/internal/catalog"
	"github.com/angeloszaimis/responder/internal/metrics"
	"github.com/angeloszaimis/responder/internal/redirect"
)

func (h *ResponderHandler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *ResponderHandler) emptyResponse(w http.ResponseWriter, r *http.Request) {
	code, ok := h.pathUint16(w, r, "code")
	if !ok {
		return
	}

	status, recognized := catalog.Resolve(code)
	if !recognized {
		h.logger.Debug("Unusable status code requested, using fallback",
			slog.Int("requested", code),
			slog.Int("status", status))
	}

	w.WriteHeader(status)
}

func (h *ResponderHandler) randomError(w http.ResponseWriter, r *http.Request) {
	percent, ok := h.pathUint16(w, r, "percent")
	if !ok {
		return
	}

	if h.injector.ShouldFail(percent) {
		h.recordFault(r, metrics.FaultRandom)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *ResponderHandler) errorCount(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("count")
	threshold, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.rejectParam(w, "count", raw)
		return
	}

	failing, err := h.counter.IncrementAndCheck(threshold)
	if err != nil {
		h.logger.Error("Error counter unavailable", slog.Any("err", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if failing {
		h.recordFault(r, metrics.FaultCount)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *ResponderHandler) errorCountReset(w http.ResponseWriter, r *http.Request) {
	if err := h.counter.Reset(); err != nil {
		h.logger.Error("Error counter unavailable", slog.Any("err", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.emitEvent(metrics.MetricEvent{Type: metrics.EventCounterReset})
	w.WriteHeader(http.StatusOK)
}

func (h *ResponderHandler) redirect(w http.ResponseWriter, r *http.Request) {
	redirect.Write(w, redirect.Fixed())
}

func (h *ResponderHandler) redirectCode(w http.ResponseWriter, r *http.Request) {
	code, ok := h.pathUint16(w, r, "code")
	if !ok {
		return
	}

	redirect.Write(w, redirect.ForCode(code))
}

func (h *ResponderHandler) redirectNested(w http.ResponseWriter, r *http.Request) {
	redirect.Write(w, redirect.Nested())
}

// pathUint16 parses a path parameter as an unsigned 16-bit integer and
// answers 400 when it is not one.
func (h *ResponderHandler) pathUint16(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.PathValue(name)

	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		h.rejectParam(w, name, raw)
		return 0, false
	}

	return int(v), true
}

func (h *ResponderHandler) rejectParam(w http.ResponseWriter, name, raw string) {
	h.logger.Debug("Rejected path parameter",
		slog.String("param", name),
		slog.String("value", raw))
	w.WriteHeader(http.StatusBadRequest)
}

func (h *ResponderHandler) recordFault(r *http.Request, kind string) {
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.Bool("responder.fault_injected", true),
		attribute.String("responder.fault_kind", kind),
	)
	h.emitEvent(metrics.MetricEvent{Type: metrics.EventFaultInjected, Fault: kind})
}
