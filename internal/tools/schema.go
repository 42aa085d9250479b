package tools

// Tool names form the closed surface exposed to both the LLM and external
// MCP clients.
const (
	ToolSearchEmails   = "search_emails"
	ToolReadEmail      = "read_email"
	ToolGetAttachment  = "get_attachment"
	ToolSendEmail      = "send_email"
	ToolModifyLabels   = "modify_labels"
	ToolBatchOperation = "batch_operation"
	ToolListLabels     = "list_labels"
	ToolCreateLabel    = "create_label"
	ToolCreateFilter   = "create_filter"
	ToolListFilters    = "list_filters"
	ToolDeleteFilter   = "delete_filter"
)

// Spec describes one tool: its name, a description for the model, and a
// JSON-schema parameter object. The same specs feed the LLM providers and
// the MCP server, so the surface is defined exactly once.
type Spec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

func messageIDSchema(desc string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": desc + ` Accepts a literal id or a contextual reference: "first", "last", "latest", a 1-based position like "2", or "last_read".`,
	}
}

// Specs returns the full tool surface.
func Specs() []Spec {
	return []Spec{
		{
			Name:        ToolSearchEmails,
			Description: "Search Gmail messages with a Gmail query string. Returns newest-first metadata (id, subject, from, to, date, snippet, labels).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Gmail search query (e.g. 'is:unread', 'from:alice@example.com subject:invoice')",
					},
					"maxResults": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 10)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        ToolReadEmail,
			Description: "Read the full content of one message, including its plain-text body and attachment list.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"messageId": messageIDSchema("Id of the message to read."),
				},
				"required": []string{"messageId"},
			},
		},
		{
			Name:        ToolGetAttachment,
			Description: "Download one attachment from a message. Attachment ids come from read_email. Content is returned base64-encoded.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"messageId":    messageIDSchema("Id of the message holding the attachment."),
					"attachmentId": map[string]any{"type": "string"},
				},
				"required": []string{"messageId", "attachmentId"},
			},
		},
		{
			Name:        ToolSendEmail,
			Description: "Send a plain-text email. Set threadId to reply within an existing thread.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"to": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Recipient email addresses",
					},
					"subject": map[string]any{"type": "string"},
					"body":    map[string]any{"type": "string"},
					"cc": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"bcc": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"threadId": map[string]any{
						"type":        "string",
						"description": "Thread to reply into, passed through unmodified",
					},
				},
				"required": []string{"to", "subject", "body"},
			},
		},
		{
			Name:        ToolModifyLabels,
			Description: "Add and/or remove labels on one or more messages. Label names are resolved to ids case-insensitively.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"messageIds": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": `Message ids, or contextual references: "those", "all_from_search", "it", "this", "last_read", "first", a 1-based position.`,
					},
					"addLabels": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"removeLabels": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []string{"messageIds"},
			},
		},
		{
			Name:        ToolBatchOperation,
			Description: "Apply one operation to every message matching a query (capped at 100). Delete and archive require user confirmation.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Gmail search query selecting the messages",
					},
					"operation": map[string]any{
						"type": "string",
						"enum": []string{"archive", "delete", "markRead", "markUnread", "star", "unstar"},
					},
				},
				"required": []string{"query", "operation"},
			},
		},
		{
			Name:        ToolListLabels,
			Description: "List all labels on the account.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ToolCreateLabel,
			Description: "Create a user label, visible in the label and message lists.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        ToolCreateFilter,
			Description: "Create a server-side filter. Filters that remove messages from the inbox require user confirmation.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"criteria": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"from":          map[string]any{"type": "string"},
							"to":            map[string]any{"type": "string"},
							"subject":       map[string]any{"type": "string"},
							"query":         map[string]any{"type": "string"},
							"hasAttachment": map[string]any{"type": "boolean"},
						},
					},
					"action": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"addLabels": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
							"removeLabels": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
							"forward": map[string]any{"type": "string"},
							"archive": map[string]any{"type": "boolean"},
						},
					},
				},
				"required": []string{"criteria", "action"},
			},
		},
		{
			Name:        ToolListFilters,
			Description: "List all server-side filters.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ToolDeleteFilter,
			Description: "Delete a filter by id. Filters are immutable; recreating is the only way to change one.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filterId": map[string]any{"type": "string"},
				},
				"required": []string{"filterId"},
			},
		},
	}
}
