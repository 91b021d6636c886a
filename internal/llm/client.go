package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderXAI       Provider = "xai"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every supported backend in a stable order.
var Providers = []Provider{ProviderOpenAI, ProviderXAI, ProviderDeepSeek, ProviderGemini, ProviderAnthropic}

func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Options tune a single completion. Image is an optional base64 PNG that is
// attached to the user turn.
type Options struct {
	Temperature float32
	ForceJSON   bool
	MaxTokens   int
	Image       string
}

// Client is the gateway every pipeline stage talks to.
type Client interface {
	Provider() Provider
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// Close releases backend resources when the client holds any.
func Close(c Client) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ProviderError is a failure reported by the backend itself, as opposed to a
// local configuration problem.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider %s error", e.Provider)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", msg, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
