// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package: JSON output in prod, text
// elsewhere, optionally teed into a rotating file managed by lumberjack.
package logger
