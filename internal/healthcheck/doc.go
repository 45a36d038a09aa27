// Package healthcheck probes a running responder's liveness endpoint. It
// backs the healthcheck subcommand and lets scripts wait for a freshly
// started instance.
package healthcheck
