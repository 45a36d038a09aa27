// Package tracing wires OpenTelemetry into the responder. Spans are exported
// over OTLP/HTTP when enabled in configuration.
package tracing
