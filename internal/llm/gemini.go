package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.ForceJSON {
		model.ResponseMIMEType = "application/json"
	}

	parts, err := geminiParts(userPrompt, opts.Image)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", mapGeminiError(err)
	}
	return geminiText(resp)
}

func geminiParts(userPrompt, image string) ([]genai.Part, error) {
	parts := []genai.Part{genai.Text(userPrompt)}
	if image == "" {
		return parts, nil
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return append(parts, genai.ImageData("png", data)), nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Message: "no response candidates or content"}
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: fmt.Sprintf("empty candidate (finish reason %v)", cand.FinishReason)}
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Message: "no text parts in response"}
	}
	return sb.String(), nil
}

func mapGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message, Cause: err}
	}
	return &ProviderError{Provider: ProviderGemini, Message: err.Error(), Cause: err}
}
