package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

func TestOllamaCompleteToolCalls(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := ollamaChatResponse{
			Message: ollamaMessage{
				Role: "assistant",
				ToolCalls: []ollamaToolCall{{
					Function: ollamaFunction{
						Name:      "search_emails",
						Arguments: map[string]any{"query": "is:unread"},
					},
				}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "llama3.1", 5*time.Second)
	out, err := c.Complete(context.Background(), &Request{
		System:   "you are a mail assistant",
		Messages: []Message{{Role: RoleUser, Content: "any new mail?"}},
		Tools:    tools.Specs(),
	})
	require.NoError(t, err)

	// Request carried the system turn, the user turn and the tool surface.
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.False(t, got.Stream)
	assert.Len(t, got.Tools, len(tools.Specs()))
	assert.Equal(t, "function", got.Tools[0].Type)

	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "search_emails", out.ToolCalls[0].Name)
	assert.NotEmpty(t, out.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"is:unread"}`, string(out.ToolCalls[0].Arguments))
}

func TestOllamaCompleteText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaChatResponse{Message: ollamaMessage{Role: "assistant", Content: "  all done  "}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "llama3.1", 5*time.Second)
	out, err := c.Complete(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "all done", out.Text)
	assert.Empty(t, out.ToolCalls)
}

func TestOllamaCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "nope", 5*time.Second)
	_, err := c.Complete(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}
