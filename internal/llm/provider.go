// Package llm adapts chat-completion backends behind a single provider
// interface with tool-calling support.
package llm

import (
	"context"
	"encoding/json"

	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a structured request by the model to run one tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Message is one conversation turn in provider-neutral form.
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant turns that requested tools.
	ToolCalls []ToolCall

	// ToolCallID and ToolName identify which call a RoleTool turn answers.
	ToolCallID string
	ToolName   string
}

// Request is one completion request: system prompt, bounded history, and the
// tool surface the model may call.
type Request struct {
	System   string
	Messages []Message
	Tools    []tools.Spec
}

// Completion is the model's answer: free text, tool calls, or both.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider is a chat-completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Completion, error)
}

// ToolResultMessage builds the turn that feeds a tool's output back to the
// model.
func ToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}
}

// AssistantToolCallMessage builds the assistant turn that carries the model's
// tool requests, so the follow-up completion sees its own plan.
func AssistantToolCallMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}
