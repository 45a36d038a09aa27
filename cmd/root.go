package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/responder/config"
	"github.com/angeloszaimis/responder/internal/healthcheck"
	"github.com/angeloszaimis/responder/internal/shutdown"
	"github.com/angeloszaimis/responder/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "responder",
		Short: "HTTP test double that answers with the failures you ask for",
		Long: `Responder serves a fixed set of endpoints that return chosen status codes,
random errors, errors until a threshold is reached, and redirects. Point
client code at it to exercise retry and error-handling paths.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment,
				logger.WithFile(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays))

			coord := shutdown.New(log)
			defer coord.Stop()

			return run(cmd.Context(), cfg, log, coord)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file (default: ./config/config.yaml or ./config.yaml)")
	cmd.Flags().Int(config.FlagPort, config.DefaultPort, "port to listen on; overrides PORT and the config file")
	cmd.Flags().String(config.FlagLogLevel, config.LogLevelInfo, "log level: debug, info, warn or error")

	cmd.AddCommand(newHealthcheckCommand())

	return cmd
}

func newHealthcheckCommand() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:          "healthcheck",
		Short:        "Probe a running responder's /healthz/ endpoint",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := healthcheck.Probe(ctx, &http.Client{Timeout: timeout}, baseURL); err != nil {
				return err
			}

			slog.Info("Responder is healthy", slog.String("url", baseURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://127.0.0.1:3000", "base URL of the responder")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to wait for an answer")

	return cmd
}
