package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/session"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

type stubMailbox struct{}

func (stubMailbox) Search(context.Context, string, int64) ([]*gmail.Message, error) {
	return []*gmail.Message{{ID: "m1", Subject: "hello"}}, nil
}
func (stubMailbox) Read(context.Context, string) (*gmail.Message, error) {
	return &gmail.Message{ID: "m1"}, nil
}
func (stubMailbox) GetAttachment(context.Context, string, string) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubMailbox) Send(context.Context, gmail.SendRequest) (string, error) { return "s1", nil }
func (stubMailbox) ModifyLabels(context.Context, []string, []string, []string) (int, error) {
	return 0, nil
}
func (stubMailbox) BatchOperate(_ context.Context, _ string, op gmail.BatchOperation) (*gmail.BatchResult, error) {
	return &gmail.BatchResult{Operation: op}, nil
}
func (stubMailbox) ListLabels(context.Context) ([]*gmail.Label, error)   { return nil, nil }
func (stubMailbox) CreateLabel(context.Context, string) (*gmail.Label, error) {
	return &gmail.Label{ID: "Label_1"}, nil
}
func (stubMailbox) CreateFilter(context.Context, gmail.FilterCriteria, gmail.FilterAction) (*gmail.FilterInfo, error) {
	return &gmail.FilterInfo{ID: "f1"}, nil
}
func (stubMailbox) ListFilters(context.Context) ([]*gmail.FilterInfo, error) { return nil, nil }
func (stubMailbox) DeleteFilter(context.Context, string) error               { return nil }

func newTestServer(t *testing.T, yolo bool) *Server {
	t.Helper()
	d := tools.NewDispatcher(stubMailbox{}, session.New(0), Confirmer(yolo), slog.New(slog.DiscardHandler))
	s, err := NewServer(d, "test")
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestHandleSearchReturnsJSON(t *testing.T) {
	s := newTestServer(t, false)

	res, err := s.handle(context.Background(), tools.ToolSearchEmails,
		callRequest(tools.ToolSearchEmails, map[string]any{"query": "is:unread"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	var payload tools.Result
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, tools.ToolSearchEmails, payload.Tool)
}

func TestHandleDangerousOperationDeclinedWithoutYolo(t *testing.T) {
	s := newTestServer(t, false)

	res, err := s.handle(context.Background(), tools.ToolBatchOperation,
		callRequest(tools.ToolBatchOperation, map[string]any{"query": "from:x", "operation": "delete"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "declined")
	assert.Contains(t, text, "--yolo")
}

func TestHandleDangerousOperationRunsWithYolo(t *testing.T) {
	s := newTestServer(t, true)

	res, err := s.handle(context.Background(), tools.ToolBatchOperation,
		callRequest(tools.ToolBatchOperation, map[string]any{"query": "from:x", "operation": "delete"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.NotContains(t, text, "declined")
}

func TestHandleValidationErrorIsToolResult(t *testing.T) {
	s := newTestServer(t, false)

	res, err := s.handle(context.Background(), tools.ToolSearchEmails,
		callRequest(tools.ToolSearchEmails, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
