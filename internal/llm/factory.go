package llm

import (
	"context"
	"fmt"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/config"
	"go.uber.org/zap"
)

// NewClient resolves the API key and builds the backend for provider. A
// missing key is a configuration error raised before any network call.
func NewClient(ctx context.Context, provider Provider, apiKey string, cfg config.ProviderConfig, logger *zap.Logger) (Client, error) {
	key, err := ResolveAPIKey(provider, apiKey)
	if err != nil {
		return nil, err
	}

	var c Client
	switch provider {
	case ProviderOpenAI, ProviderXAI, ProviderDeepSeek:
		if cfg.Model == "" {
			return nil, apperr.Configuration("no model configured for provider %s", provider)
		}
		c = NewOpenAIClient(provider, key, cfg.Model, cfg.BaseURL)

	case ProviderGemini:
		if cfg.Model == "" {
			return nil, apperr.Configuration("no model configured for provider %s", provider)
		}
		g, err := NewGeminiClient(ctx, key, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		c = g

	case ProviderAnthropic:
		if cfg.Model == "" {
			return nil, apperr.Configuration("no model configured for provider %s", provider)
		}
		c = NewClaudeClient(key, cfg.Model, cfg.BaseURL)

	default:
		return nil, apperr.Configuration("unsupported llm provider: %s", provider)
	}

	return NewInstrumented(c, logger), nil
}
