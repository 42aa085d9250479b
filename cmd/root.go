package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailpilot application
var rootCmd = &cobra.Command{
	Use:   "mailpilot",
	Short: "Conversational Gmail assistant",
	Long: `mailpilot lets you manage your Gmail inbox in natural language. An LLM
plans tool calls against the Gmail API; contextual references such as "it",
"those" or "the first one" are resolved against the running session.

It can run as:
  - An interactive chat assistant (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailpilot version %s\n" .Version}}`)

	// If no subcommand is provided, run the chat assistant by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
