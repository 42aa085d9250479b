package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

func TestBuildAnthropicPayload(t *testing.T) {
	req := &Request{
		System: "be helpful",
		Messages: []Message{
			{Role: RoleUser, Content: "archive my newsletters"},
			{
				Role: RoleAssistant,
				ToolCalls: []ToolCall{{
					ID:        "toolu_1",
					Name:      "batch_operation",
					Arguments: json.RawMessage(`{"query":"from:news","operation":"archive"}`),
				}},
			},
			ToolResultMessage(ToolCall{ID: "toolu_1", Name: "batch_operation"}, `{"affected":3}`),
		},
		Tools: tools.Specs(),
	}

	payload, err := buildAnthropicPayload(req)
	require.NoError(t, err)

	assert.Equal(t, anthropicVersion, payload["anthropic_version"])
	assert.Equal(t, "be helpful", payload["system"])

	messages := payload["messages"].([]map[string]any)
	require.Len(t, messages, 3)

	// Assistant tool request travels as a tool_use block.
	asst := messages[1]
	assert.Equal(t, "assistant", asst["role"])
	blocks := asst["content"].([]any)
	require.Len(t, blocks, 1)
	use := blocks[0].(map[string]any)
	assert.Equal(t, "tool_use", use["type"])
	assert.Equal(t, "toolu_1", use["id"])
	assert.Equal(t, map[string]any{"query": "from:news", "operation": "archive"}, use["input"])

	// Tool result travels back as a user-role tool_result block.
	result := messages[2]
	assert.Equal(t, "user", result["role"])
	rblocks := result["content"].([]any)
	rb := rblocks[0].(map[string]any)
	assert.Equal(t, "tool_result", rb["type"])
	assert.Equal(t, "toolu_1", rb["tool_use_id"])

	specs := payload["tools"].([]map[string]any)
	assert.Len(t, specs, len(tools.Specs()))
	assert.Contains(t, specs[0], "input_schema")
}

func TestParseAnthropicResponse(t *testing.T) {
	body := []byte(`{
		"content": [
			{"type": "text", "text": "Archiving those now."},
			{"type": "tool_use", "id": "toolu_9", "name": "batch_operation",
			 "input": {"query": "from:news", "operation": "archive"}}
		],
		"stop_reason": "tool_use"
	}`)

	out, err := parseAnthropicResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "Archiving those now.", out.Text)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "toolu_9", out.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"from:news","operation":"archive"}`, string(out.ToolCalls[0].Arguments))
}

func TestNormalizeModelID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"anthropic.claude-3-5-sonnet-20241022-v2", "anthropic.claude-3-5-sonnet-20241022-v2:0"},
		{"anthropic.claude-3-haiku-20240307-v1:0", "anthropic.claude-3-haiku-20240307-v1:0"},
		{"arn:aws:bedrock:us-east-1::foundation-model/x", "arn:aws:bedrock:us-east-1::foundation-model/x"},
		{"us-east-1/inference-profile/abc", "us-east-1/inference-profile/abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeModelID(tt.in), tt.in)
	}
}
