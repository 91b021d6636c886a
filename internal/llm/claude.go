package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const claudeDefaultMaxTokens = 4096

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	// the client sends apiKey as x-api-key along with the anthropic-version header
	client := anthropic.NewClient(apiKey, opts...)

	return &ClaudeClient{
		client: client,
		model:  model,
	}
}

func (c *ClaudeClient) Provider() Provider {
	return ProviderAnthropic
}

func (c *ClaudeClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = claudeDefaultMaxTokens
	}
	temperature := opts.Temperature

	content := []anthropic.MessageContent{anthropic.NewTextMessageContent(userPrompt)}
	if opts.Image != "" {
		content = append(content, anthropic.NewImageMessageContent(anthropic.MessageContentSource{
			Type:      anthropic.MessagesContentSourceTypeBase64,
			MediaType: "image/png",
			Data:      opts.Image,
		}))
	}

	// no native JSON mode: ForceJSON is carried by the prompt contract alone
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: anthropic.RoleUser, Content: content}},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", c.mapError(err)
	}

	var sb strings.Builder
	for _, part := range resp.Content {
		if part.Text != nil {
			sb.WriteString(*part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &ProviderError{Provider: ProviderAnthropic, Message: "no response content"}
	}
	return sb.String(), nil
}

func (c *ClaudeClient) mapError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderAnthropic, Message: apiErr.Message, Cause: err}
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Provider: ProviderAnthropic, StatusCode: reqErr.StatusCode, Message: reqErr.Error(), Cause: err}
	}
	return &ProviderError{Provider: ProviderAnthropic, Message: err.Error(), Cause: err}
}
