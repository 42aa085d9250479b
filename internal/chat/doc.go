// Package chat implements the interactive assistant: a read-eval loop that
// turns natural language into tool calls through an LLM provider and renders
// the outcomes.
package chat
