package llm

import (
	"context"
	"fmt"

	"github.com/mailpilot-ai/mailpilot/internal/config"
)

// NewProvider builds the provider named by cfg.LLM.Provider. An unknown
// provider is a startup error, never a fallback.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	timeout := cfg.LLM.TimeoutDuration()

	switch cfg.LLM.Provider {
	case "openai":
		key, err := cfg.ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		return NewOpenAI(key, cfg.LLM.Model)
	case "ollama":
		return NewOllama(cfg.LLM.Endpoint, cfg.LLM.Model, timeout), nil
	case "bedrock":
		return NewBedrock(ctx, cfg.LLM.Region, cfg.LLM.Model, timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (supported: openai, ollama, bedrock)", cfg.LLM.Provider)
	}
}
