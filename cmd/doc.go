// Package cmd defines the mailpilot command-line interface: the interactive
// chat assistant, the MCP server, Google authorization and version commands.
package cmd
