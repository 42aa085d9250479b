package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/llm"
	"github.com/mailpilot-ai/mailpilot/internal/session"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

// scriptedProvider returns canned completions in order.
type scriptedProvider struct {
	completions []*llm.Completion
	errs        []error
	requests    []*llm.Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(_ context.Context, req *llm.Request) (*llm.Completion, error) {
	i := len(p.requests)
	p.requests = append(p.requests, req)
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.completions) {
		return nil, errors.New("provider called more often than scripted")
	}
	return p.completions[i], nil
}

type chatMailbox struct {
	searchResults []*gmail.Message
}

func (m *chatMailbox) Search(context.Context, string, int64) ([]*gmail.Message, error) {
	return m.searchResults, nil
}
func (m *chatMailbox) Read(_ context.Context, id string) (*gmail.Message, error) {
	return &gmail.Message{ID: id, Subject: "Re: standup", Body: "see you at 10"}, nil
}
func (m *chatMailbox) GetAttachment(context.Context, string, string) ([]byte, error) {
	return []byte("attachment-bytes"), nil
}
func (m *chatMailbox) Send(context.Context, gmail.SendRequest) (string, error) { return "s1", nil }
func (m *chatMailbox) ModifyLabels(_ context.Context, ids, _, _ []string) (int, error) {
	return len(ids), nil
}
func (m *chatMailbox) BatchOperate(_ context.Context, _ string, op gmail.BatchOperation) (*gmail.BatchResult, error) {
	return &gmail.BatchResult{Operation: op, Affected: 1}, nil
}
func (m *chatMailbox) ListLabels(context.Context) ([]*gmail.Label, error) {
	return []*gmail.Label{{ID: "Label_1", Name: "Work", Type: "user"}}, nil
}
func (m *chatMailbox) CreateLabel(_ context.Context, name string) (*gmail.Label, error) {
	return &gmail.Label{ID: "Label_2", Name: name, Type: "user"}, nil
}
func (m *chatMailbox) CreateFilter(context.Context, gmail.FilterCriteria, gmail.FilterAction) (*gmail.FilterInfo, error) {
	return &gmail.FilterInfo{ID: "f1"}, nil
}
func (m *chatMailbox) ListFilters(context.Context) ([]*gmail.FilterInfo, error) { return nil, nil }
func (m *chatMailbox) DeleteFilter(context.Context, string) error               { return nil }

func newTestAssistant(t *testing.T, provider llm.Provider, input string) (*Assistant, *bytes.Buffer, *session.Context) {
	t.Helper()
	var out bytes.Buffer
	reader := NewLineReader(strings.NewReader(input))
	sess := session.New(0)
	mail := &chatMailbox{searchResults: []*gmail.Message{
		{ID: "m1", Subject: "release notes", From: "ci@example.com", Date: "Mon, 2 Jun 2025"},
	}}
	d := tools.NewDispatcher(mail, sess, NewTerminalConfirmer(reader, &out), slog.New(slog.DiscardHandler))
	return New(provider, d, slog.New(slog.DiscardHandler), reader, &out), &out, sess
}

func toolCall(name string, args string) llm.ToolCall {
	return llm.ToolCall{ID: "call_0", Name: name, Arguments: json.RawMessage(args)}
}

func TestRunExitCommand(t *testing.T) {
	provider := &scriptedProvider{}
	a, out, _ := newTestAssistant(t, provider, "exit\n")

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "bye")
	assert.Empty(t, provider.requests, "builtins must not reach the model")
}

func TestRunHelpAndEOF(t *testing.T) {
	provider := &scriptedProvider{}
	a, out, _ := newTestAssistant(t, provider, "help\n")

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "archive those")
	assert.Empty(t, provider.requests)
}

func TestTurnToolRoundTrip(t *testing.T) {
	provider := &scriptedProvider{
		completions: []*llm.Completion{
			{ToolCalls: []llm.ToolCall{toolCall("search_emails", `{"query":"is:unread"}`)}},
			{Text: "You have one unread email about release notes."},
		},
	}
	a, out, sess := newTestAssistant(t, provider, "any new mail?\nexit\n")

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "release notes")
	assert.Contains(t, out.String(), "You have one unread email")

	// Second request carried the assistant's tool plan and the tool result.
	require.Len(t, provider.requests, 2)
	second := provider.requests[1]
	roles := make([]string, len(second.Messages))
	for i, m := range second.Messages {
		roles[i] = m.Role
	}
	assert.Equal(t, []string{llm.RoleUser, llm.RoleAssistant, llm.RoleTool}, roles)

	// Session captured both conversation turns and the search ids.
	assert.Equal(t, []string{"m1"}, sess.LastSearchIDs())
	turns := sess.History()
	require.Len(t, turns, 2)
	assert.Equal(t, llm.RoleAssistant, turns[1].Role)
}

func TestTurnToolErrorFedBackToModel(t *testing.T) {
	provider := &scriptedProvider{
		completions: []*llm.Completion{
			{ToolCalls: []llm.ToolCall{toolCall("search_emails", `{}`)}},
			{Text: "I could not search, the query was missing."},
		},
	}
	a, out, _ := newTestAssistant(t, provider, "search\nexit\n")

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "search_emails failed")
	require.Len(t, provider.requests, 2)
	last := provider.requests[1].Messages
	assert.Contains(t, last[len(last)-1].Content, "error")
}

func TestTurnProviderErrorKeepsLoopAlive(t *testing.T) {
	provider := &scriptedProvider{
		errs:        []error{errors.New("model offline")},
		completions: []*llm.Completion{nil, {Text: "back online"}},
	}
	a, out, _ := newTestAssistant(t, provider, "hello\nhello again\nexit\n")

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "model offline")
	assert.Contains(t, out.String(), "back online")
}

func TestConfirmDeclinedBatchRendersCancelled(t *testing.T) {
	provider := &scriptedProvider{
		completions: []*llm.Completion{
			{ToolCalls: []llm.ToolCall{toolCall("batch_operation", `{"query":"from:spam","operation":"delete"}`)}},
			{Text: "Okay, I left everything alone."},
		},
	}
	// "n" answers the confirmation prompt.
	a, out, _ := newTestAssistant(t, provider, "delete all spam\nn\nexit\n")

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "Proceed? [y/N]")
	assert.Contains(t, out.String(), "cancelled, nothing was changed")
}

func TestSystemPromptCarriesSessionState(t *testing.T) {
	provider := &scriptedProvider{completions: []*llm.Completion{{Text: "hi"}}}
	a, _, sess := newTestAssistant(t, provider, "")
	sess.RecordSearch([]string{"m7"})
	sess.RefreshLabels([]*gmail.Label{{ID: "Label_1", Name: "Work"}})

	prompt := a.systemPrompt(sess)
	assert.Contains(t, prompt, "Work")
	assert.Contains(t, prompt, "m7")
	assert.Contains(t, prompt, "never invent message content")
}
