// Package config handles loading and validation of the responder's
// configuration from YAML files, environment variables and command-line
// flags. It covers the listening port, log output, metrics and tracing.
package config
