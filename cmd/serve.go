package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mailpilot-ai/mailpilot/internal/mcp"
	"github.com/mailpilot-ai/mailpilot/internal/session"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

func newServeCmd() *cobra.Command {
	var yolo bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server over stdio",
		Long: `Expose the assistant's Gmail tools to MCP clients over stdio. Because no
interactive confirmation is possible on this transport, destructive
operations are declined unless --yolo is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadApp()
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Addr = metricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newGmailClient(ctx, cfg)
			if err != nil {
				return err
			}

			metrics, stopMetrics, err := startMetrics(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer stopMetrics()
			client.SetMetrics(metrics)

			dispatcher := tools.NewDispatcher(client, session.New(cfg.HistoryTurns), mcp.Confirmer(yolo), logger)
			dispatcher.SetMetrics(metrics)
			dispatcher.SetMaxSearchResults(cfg.MaxSearchResults)

			srv, err := mcp.NewServer(dispatcher, version)
			if err != nil {
				return err
			}

			if yolo {
				logger.Warn("dangerous operations enabled over stdio")
			}

			serverDone := make(chan error, 1)
			go func() {
				defer close(serverDone)
				if err := srv.ServeStdio(); err != nil {
					serverDone <- err
				}
			}()

			select {
			case err := <-serverDone:
				return err
			case <-ctx.Done():
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "allow destructive operations without confirmation")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}
