package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	bedrockMaxTokens = 2048
)

// BedrockClient runs completions through Amazon Bedrock using the Anthropic
// messages API. Credentials come from the default AWS config chain.
type BedrockClient struct {
	model   string
	timeout time.Duration
	svc     *bedrockruntime.Client
}

// NewBedrock resolves AWS config and builds a Bedrock runtime client. region
// may be empty when the AWS profile or environment supplies one.
func NewBedrock(ctx context.Context, region, model string, timeout time.Duration) (*BedrockClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("bedrock model is required")
	}

	var cfg aws.Config
	var err error
	if strings.TrimSpace(region) != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not resolved; set llm.region, AWS_REGION or a profile region")
	}

	return &BedrockClient{
		model:   model,
		timeout: timeout,
		svc:     bedrockruntime.NewFromConfig(cfg),
	}, nil
}

func (b *BedrockClient) Name() string { return "bedrock" }

// Complete marshals the conversation into an Anthropic messages payload and
// invokes the model.
func (b *BedrockClient) Complete(ctx context.Context, req *Request) (*Completion, error) {
	payload, err := buildAnthropicPayload(req)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	out, err := b.svc.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(normalizeModelID(b.model)),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke error: %w", err)
	}

	return parseAnthropicResponse(out.Body)
}

// buildAnthropicPayload converts the neutral request into the Anthropic
// messages format: tool results travel as user-role tool_result blocks,
// assistant tool requests as tool_use blocks.
func buildAnthropicPayload(req *Request) (map[string]any, error) {
	messages := make([]map[string]any, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleTool:
			messages = append(messages, map[string]any{
				"role": "user",
				"content": []any{map[string]any{
					"type":        "tool_result",
					"tool_use_id": m.ToolCallID,
					"content":     m.Content,
				}},
			})
		case RoleAssistant:
			var blocks []any
			if m.Content != "" {
				blocks = append(blocks, map[string]any{"type": "text", "text": m.Content})
			}
			for _, tc := range m.ToolCalls {
				var input map[string]any
				if len(tc.Arguments) > 0 {
					if err := json.Unmarshal(tc.Arguments, &input); err != nil {
						return nil, fmt.Errorf("failed to encode tool call arguments: %w", err)
					}
				}
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, map[string]any{
					"type":  "tool_use",
					"id":    tc.ID,
					"name":  tc.Name,
					"input": input,
				})
			}
			messages = append(messages, map[string]any{"role": "assistant", "content": blocks})
		default:
			messages = append(messages, map[string]any{
				"role":    "user",
				"content": []any{map[string]any{"type": "text", "text": m.Content}},
			})
		}
	}

	payload := map[string]any{
		"anthropic_version": anthropicVersion,
		"max_tokens":        bedrockMaxTokens,
		"messages":          messages,
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	if len(req.Tools) > 0 {
		tools := make([]map[string]any, 0, len(req.Tools))
		for _, spec := range req.Tools {
			tools = append(tools, map[string]any{
				"name":         spec.Name,
				"description":  spec.Description,
				"input_schema": spec.Parameters,
			})
		}
		payload["tools"] = tools
	}
	return payload, nil
}

func parseAnthropicResponse(body []byte) (*Completion, error) {
	var resp struct {
		Content []struct {
			Type  string          `json:"type"`
			Text  string          `json:"text"`
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode Anthropic response: %w", err)
	}

	out := &Completion{}
	var texts []string
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			if strings.TrimSpace(block.Text) != "" {
				texts = append(texts, strings.TrimSpace(block.Text))
			}
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	out.Text = strings.Join(texts, "\n")
	return out, nil
}

// normalizeModelID appends the revision suffix plain model ids need, leaving
// ARNs and inference profiles untouched.
func normalizeModelID(model string) string {
	lower := strings.ToLower(model)
	if strings.HasPrefix(lower, "arn:") || strings.Contains(lower, "inference-profile/") {
		return model
	}
	if !strings.Contains(model, ":") {
		return model + ":0"
	}
	return model
}
