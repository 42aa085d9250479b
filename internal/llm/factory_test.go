package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot-ai/mailpilot/internal/config"
)

func TestNewProviderUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "skynet"

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown LLM provider "skynet"`)
}

func TestNewProviderOllama(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1"

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "gpt-4o")
	require.Error(t, err)
}
