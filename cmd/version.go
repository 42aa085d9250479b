package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mailpilot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mailpilot version %s\n", version)
		},
	}
}
