package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mailpilot-ai/mailpilot/internal/config"
	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/google"
	"github.com/mailpilot-ai/mailpilot/internal/instrumentation"
	"github.com/mailpilot-ai/mailpilot/internal/logging"
	"github.com/mailpilot-ai/mailpilot/internal/server"
)

// persistent flags shared by the chat and serve commands
var (
	configPath string
	debugMode  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/mailpilot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// loadApp loads configuration and sets up the logger. Logs go to stderr or
// the configured log file, never stdout.
func loadApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger, err := logging.Setup(level, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// googleCredentials merges config and environment client credentials.
func googleCredentials(cfg *config.Config) (google.Credentials, error) {
	creds := google.Credentials{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
	}.FromEnv()
	if !creds.Valid() {
		return creds, fmt.Errorf("Google client credentials missing; set gmail.client_id/client_secret in the config or GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET")
	}
	return creds, nil
}

// newGmailClient builds the Gmail API client from stored credentials.
func newGmailClient(ctx context.Context, cfg *config.Config) (*gmail.Client, error) {
	creds, err := googleCredentials(cfg)
	if err != nil {
		return nil, err
	}
	if !gmail.HasToken() {
		return nil, fmt.Errorf("no Google token found; run 'mailpilot auth' first")
	}
	return gmail.NewClient(ctx, creds)
}

// startMetrics starts the Prometheus endpoint when enabled. The returned
// shutdown function is safe to call regardless.
func startMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*instrumentation.Metrics, func(), error) {
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		Enabled:        cfg.Metrics.Enabled,
		ServiceName:    config.AppName,
		ServiceVersion: version,
	})
	if err != nil {
		return nil, nil, err
	}
	if !provider.Enabled() {
		return provider.Metrics(), func() {}, nil
	}

	srv, err := server.NewMetricsServer(cfg.Metrics.Addr, provider, logging.WithOperation(logger, "metrics"))
	if err != nil {
		return nil, nil, err
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logging.Err(err))
		}
	}()

	shutdown := func() {
		_ = srv.Shutdown(ctx)
		_ = provider.Shutdown(ctx)
	}
	return provider.Metrics(), shutdown, nil
}
