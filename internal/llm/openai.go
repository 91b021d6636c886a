package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks the chat-completion dialect shared by OpenAI, xAI and
// DeepSeek. Only the base URL and model differ between them.
type OpenAIClient struct {
	client   *openai.Client
	provider Provider
	model    string
}

func NewOpenAIClient(provider Provider, apiKey string, model string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client:   client,
		provider: provider,
		model:    model,
	}
}

func (c *OpenAIClient) Provider() Provider {
	return c.provider
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildMessages(systemPrompt, userPrompt, opts.Image),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.ForceJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.mapError(err)
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		return resp.Choices[0].Message.Content, nil
	}
	return "", &ProviderError{Provider: c.provider, Message: "no response choices"}
}

func (c *OpenAIClient) buildMessages(systemPrompt, userPrompt, image string) []openai.ChatCompletionMessage {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if image == "" {
		return append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: userPrompt,
		})
	}
	return append(msgs, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: userPrompt},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: "data:image/png;base64," + image},
			},
		},
	})
}

func (c *OpenAIClient) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   c.provider,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider:   c.provider,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    fmt.Sprintf("request failed: %v", reqErr.Err),
			Cause:      err,
		}
	}
	return &ProviderError{Provider: c.provider, Message: err.Error(), Cause: err}
}
