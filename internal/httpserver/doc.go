// Package httpserver wraps net/http.Server with address validation, a
// separate bind step and context-bounded shutdown.
package httpserver
