package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrUnhealthy is returned when the liveness endpoint answers anything but
// 200.
var ErrUnhealthy = errors.New("healthcheck: responder is unhealthy")

const healthPath = "/healthz/"

// Probe sends one GET to baseURL's /healthz/ endpoint.
func Probe(ctx context.Context, client *http.Client, baseURL string) error {
	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("healthcheck: parse %q: %w", baseURL, err)
	}
	healthURL := base.ResolveReference(&url.URL{Path: healthPath})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL.String(), nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s answered %d", ErrUnhealthy, healthURL, res.StatusCode)
	}

	return nil
}

// WaitReady probes baseURL every interval until it answers healthy or ctx
// is done.
func WaitReady(ctx context.Context, client *http.Client, baseURL string, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := Probe(ctx, client, baseURL)
		if err == nil {
			logger.Info("Responder is up", slog.String("url", baseURL))
			return nil
		}

		logger.Debug("Responder not ready yet",
			slog.String("url", baseURL),
			slog.Any("err", err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("healthcheck: waiting for %s: %w", baseURL, ctx.Err())
		case <-ticker.C:
		}
	}
}
