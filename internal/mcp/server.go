// Package mcp exposes the assistant's tool surface as an MCP server over
// stdio, so external agents can drive the same dispatcher the interactive
// chat uses.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

const serverName = "mailpilot"

// Server wraps an MCP server around a tool dispatcher.
type Server struct {
	mcpSrv     *mcpserver.MCPServer
	dispatcher *tools.Dispatcher
}

// Confirmer returns the confirmation policy for stdio transport. No prompt
// is possible there: dangerous operations are declined unless yolo is set.
func Confirmer(yolo bool) tools.Confirmer {
	if yolo {
		return tools.AutoApprove()
	}
	return tools.AutoDeny()
}

// NewServer registers every tool from the shared schema catalog against the
// dispatcher.
func NewServer(dispatcher *tools.Dispatcher, version string) (*Server, error) {
	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
	)
	s := &Server{mcpSrv: mcpSrv, dispatcher: dispatcher}

	for _, spec := range tools.Specs() {
		schema, err := json.Marshal(spec.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema for %s: %w", spec.Name, err)
		}

		name := spec.Name
		tool := mcp.NewToolWithRawSchema(name, spec.Description, schema)
		mcpSrv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.handle(ctx, name, request)
		})
	}

	return s, nil
}

func (s *Server) handle(ctx context.Context, name string, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.dispatcher.Dispatch(ctx, name, request.GetArguments())
	if err != nil {
		var unknown *tools.UnknownToolError
		if errors.As(err, &unknown) {
			// Registration and dispatch drifted apart; surface as a
			// protocol error, not a tool result.
			return nil, err
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if res.Cancelled {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Operation %q was declined: dangerous operations are disabled over this transport. Restart the server with --yolo to allow them.",
			res.Operation,
		)), nil
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpSrv)
}
