package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultContext7URL = "https://context7.com/api/v2"

type Library struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	LastUpdateDate string   `json:"lastUpdateDate"`
	TotalSnippets  int      `json:"totalSnippets"`
	Stars          int      `json:"stars"`
	TrustScore     float64  `json:"trustScore"`
	Versions       []string `json:"versions"`
}

type Snippet struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
	Path      string  `json:"path"`
}

// Docs is a documentation search backend.
type Docs interface {
	SearchLibraries(ctx context.Context, libraryName, query string) ([]Library, error)
	Snippets(ctx context.Context, libraryID, query string, limit int) ([]Snippet, error)
}

// Context7 is a client for the Context7 documentation API.
type Context7 struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewContext7(baseURL, apiKey string, httpClient *http.Client) *Context7 {
	if baseURL == "" {
		baseURL = DefaultContext7URL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Context7{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, httpClient: httpClient}
}

func (c *Context7) SearchLibraries(ctx context.Context, libraryName, query string) ([]Library, error) {
	params := url.Values{"libraryName": {libraryName}}
	if query != "" {
		params.Set("query", query)
	}

	var out struct {
		Results []Library `json:"results"`
	}
	if err := c.get(ctx, "/libs/search?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Context7) Snippets(ctx context.Context, libraryID, query string, limit int) ([]Snippet, error) {
	params := url.Values{"query": {query}, "limit": {strconv.Itoa(limit)}}

	var out struct {
		Snippets []Snippet `json:"snippets"`
	}
	path := "/libs/" + url.PathEscape(libraryID) + "/snippets?" + params.Encode()
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Snippets, nil
}

func (c *Context7) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("context7 request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("context7 API error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode context7 response: %w", err)
	}
	return nil
}
