package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventFaultInjected     EventType = "fault_injected"
	EventCounterReset      EventType = "counter_reset"
)

const (
	FaultRandom = "random"
	FaultCount  = "count"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Route      string
	Fault      string
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	prom    *promMetrics
	logger  *slog.Logger
}

// NewCollector creates a collector whose Prometheus series are registered
// with reg. Pass nil to keep them private.
func NewCollector(bufferSize int, logger *slog.Logger, reg prometheus.Registerer) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		prom:    newPromMetrics(reg),
		logger:  logger,
	}
}

// Emit records event. Prometheus series are updated immediately; the
// in-memory snapshot is fed through a buffered channel and drops events,
// without blocking, when the buffer is full.
func (c *Collector) Emit(event MetricEvent) {
	c.prom.observe(event)

	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.Route)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Route, event.Duration, event.StatusCode)

	case EventFaultInjected:
		c.metrics.RecordFault(event.Fault)

	case EventCounterReset:
		c.metrics.RecordCounterReset()
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
