// Package handler implements the responder's request router.
//
// ResponderHandler owns the route table and is the only place that knows
// every route shape. It parses path parameters, delegates to the catalog,
// fault, counter and redirect packages, and wraps each request with a
// request id, a trace span, a metrics event and a log line.
package handler
