package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/responder/config"
	"github.com/angeloszaimis/responder/internal/counter"
	"github.com/angeloszaimis/responder/internal/fault"
	"github.com/angeloszaimis/responder/internal/handler"
	"github.com/angeloszaimis/responder/internal/httpserver"
	"github.com/angeloszaimis/responder/internal/metrics"
	"github.com/angeloszaimis/responder/internal/shutdown"
	"github.com/angeloszaimis/responder/internal/tracing"
)

const tracingFlushTimeout = 5 * time.Second

// app is the responder's process-wide state, built once at startup.
type app struct {
	counter   *counter.Counter
	collector *metrics.Collector
	registry  *prometheus.Registry
	router    http.Handler
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{
		counter:  counter.New(),
		registry: prometheus.NewRegistry(),
	}

	if cfg.Metrics.Enabled {
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.collector = metrics.NewCollector(cfg.Metrics.BufferSize, log, a.registry)
		if err := metrics.RegisterCounterGauge(a.registry, a.counter.Value); err != nil {
			return nil, err
		}
	}

	responderHandler := handler.NewResponderHandler(log, a.counter, fault.NewInjector(), a.collector)
	a.router = setupRouter(responderHandler, a.collector, a.registry, cfg.Metrics.Path)

	return a, nil
}

// run serves until coord sees a termination signal and the server has
// drained, or until serving fails.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, coord *shutdown.Coordinator) error {
	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Error("Failed to initialize tracing", slog.Any("err", err))
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), tracingFlushTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("Failed to flush traces", slog.Any("err", err))
		}
	}()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("Failed to build responder", slog.Any("err", err))
		return err
	}

	srv, err := httpserver.New(cfg.Address(), a.router)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return err
	}

	if err := srv.Listen(); err != nil {
		log.Error("Failed to bind listener",
			slog.String("addr", cfg.Address()),
			slog.Any("err", err))
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.collector != nil {
		a.collector.Start(ctx)
	}

	log.Info("Responder listening",
		slog.String("addr", srv.Addr()),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("tracing", cfg.Tracing.Enabled))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		return coord.Run(gctx, srv, cfg.ShutdownTimeout())
	})

	if err := g.Wait(); err != nil {
		log.Error("Responder stopped with error", slog.Any("err", err))
		return err
	}

	log.Info("Responder stopped")
	return nil
}
