package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"
)

const (
	SourceInterrupt = "interrupt"
	SourceTerminate = "terminate"
)

// Drainer is anything that can stop accepting work and wait for in-flight
// work to finish. *httpserver.Server satisfies it.
type Drainer interface {
	Shutdown(ctx context.Context) error
}

// Coordinator races two termination sources and drains a server exactly once.
type Coordinator struct {
	logger    *slog.Logger
	interrupt <-chan os.Signal
	terminate <-chan os.Signal
	stop      func()

	once     sync.Once
	draining chan struct{}
}

// New installs signal delivery for os.Interrupt and, where the platform has
// one, the terminate signal. Delivery stays installed until Stop so a second
// signal during drain is absorbed instead of killing the process.
func New(logger *slog.Logger) *Coordinator {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	terminate := make(chan os.Signal, 1)
	if sigs := terminateSignals(); len(sigs) > 0 {
		signal.Notify(terminate, sigs...)
	}

	c := NewWithSources(logger, interrupt, terminate)
	c.stop = func() {
		signal.Stop(interrupt)
		signal.Stop(terminate)
	}

	return c
}

// NewWithSources builds a coordinator over caller-supplied channels. A nil
// channel never fires.
func NewWithSources(logger *slog.Logger, interrupt, terminate <-chan os.Signal) *Coordinator {
	return &Coordinator{
		logger:    logger,
		interrupt: interrupt,
		terminate: terminate,
		stop:      func() {},
		draining:  make(chan struct{}),
	}
}

// Wait blocks until either source fires or ctx is done. It returns the name
// of the source that fired, or "" when ctx ended first.
func (c *Coordinator) Wait(ctx context.Context) string {
	var source string

	select {
	case <-c.interrupt:
		source = SourceInterrupt
	case <-c.terminate:
		source = SourceTerminate
	case <-ctx.Done():
		return ""
	}

	c.logger.Info("Signal received, starting graceful shutdown", slog.String("source", source))
	go c.absorb()

	return source
}

// absorb logs and discards notifications that arrive once drain has begun.
func (c *Coordinator) absorb() {
	for {
		select {
		case <-c.interrupt:
			c.logger.Warn("Shutdown already in progress", slog.String("source", SourceInterrupt))
		case <-c.terminate:
			c.logger.Warn("Shutdown already in progress", slog.String("source", SourceTerminate))
		case <-c.Done():
			return
		}
	}
}

// Drain shuts d down at most once per coordinator. timeout bounds how long
// in-flight requests may take; zero means no bound beyond ctx. Calls after
// the first return nil immediately.
func (c *Coordinator) Drain(ctx context.Context, d Drainer, timeout time.Duration) error {
	var err error

	c.once.Do(func() {
		defer close(c.draining)

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		err = d.Shutdown(ctx)
		if err != nil {
			c.logger.Error("Error during shutdown", slog.Any("err", err))
			return
		}
		c.logger.Info("Server drained", slog.Duration("took", time.Since(start)))
	})

	return err
}

// Run waits for the first notification and drains d. If ctx ends before any
// notification arrives, Run returns without draining.
func (c *Coordinator) Run(ctx context.Context, d Drainer, timeout time.Duration) error {
	if c.Wait(ctx) == "" {
		return nil
	}

	// The waiting context may already be cancelled by the time we drain;
	// shutting down must still get its full timeout.
	return c.Drain(context.WithoutCancel(ctx), d, timeout)
}

// Done is closed once a drain has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.draining
}

// Stop removes signal delivery installed by New.
func (c *Coordinator) Stop() {
	c.stop()
}
