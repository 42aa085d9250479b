package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mailpilot-ai/mailpilot/internal/chat"
	"github.com/mailpilot-ai/mailpilot/internal/llm"
	"github.com/mailpilot-ai/mailpilot/internal/session"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive Gmail assistant",
		Long: `Start a conversational session against your Gmail account. Type requests
in plain language; destructive operations ask for confirmation first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newGmailClient(ctx, cfg)
			if err != nil {
				return err
			}

			provider, err := llm.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}

			metrics, stopMetrics, err := startMetrics(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer stopMetrics()
			client.SetMetrics(metrics)

			reader := chat.NewLineReader(os.Stdin)
			confirmer := chat.NewTerminalConfirmer(reader, os.Stdout)
			dispatcher := tools.NewDispatcher(client, session.New(cfg.HistoryTurns), confirmer, logger)
			dispatcher.SetMetrics(metrics)
			dispatcher.SetMaxSearchResults(cfg.MaxSearchResults)

			// Warm the label cache so the first prompt already knows the
			// user's labels. Failures are tolerated; the dispatcher
			// refreshes on demand.
			if _, err := dispatcher.Dispatch(ctx, tools.ToolListLabels, nil); err != nil {
				logger.Warn("initial label listing failed", "error", err)
			}

			assistant := chat.New(provider, dispatcher, logger, reader, os.Stdout)
			assistant.SetMetrics(metrics)
			return assistant.Run(ctx)
		},
	}
}
