package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var storeAPIKey bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize mailpilot with Google",
		Long: `Run the Google OAuth flow and cache the resulting token. With
--store-api-key the command instead saves your LLM provider API key in the
OS keyring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadApp()
			if err != nil {
				return err
			}

			in := bufio.NewReader(os.Stdin)

			if storeAPIKey {
				fmt.Printf("API key for provider %q: ", cfg.LLM.Provider)
				key, err := in.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}
				if err := cfg.StoreAPIKey(strings.TrimSpace(key)); err != nil {
					return err
				}
				fmt.Println("API key stored in the OS keyring.")
				return nil
			}

			creds, err := googleCredentials(cfg)
			if err != nil {
				return err
			}

			if gmail.HasToken() {
				fmt.Println("A Google token is already cached; continuing will replace it.")
			}

			fmt.Printf("Open the following URL in your browser:\n\n  %s\n\nPaste the authorization code: ", google.AuthURL(creds))
			code, err := in.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}

			if err := google.SaveToken(cmd.Context(), creds, strings.TrimSpace(code)); err != nil {
				return err
			}
			fmt.Println("Token saved. You can now run 'mailpilot chat'.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&storeAPIKey, "store-api-key", false, "store the LLM provider API key in the OS keyring")
	return cmd
}
