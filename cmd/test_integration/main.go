package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := envOr("AUTOFLOW_URL", "http://localhost:8080")
	provider := envOr("AUTOFLOW_PROVIDER", "openai")
	client := &http.Client{Timeout: 2 * time.Minute}

	fmt.Println("Starting smoke test against", baseURL)

	check("health", send(client, http.MethodGet, baseURL+"/healthz", provider, nil, nil))
	check("examples", send(client, http.MethodGet, baseURL+"/api/analyze-intent", provider, nil, nil))
	check("node search", send(client, http.MethodGet, baseURL+"/api/nodes/search?q=slack", provider, nil, nil))

	request := "Every morning at 9, post a summary of new Gmail messages to the #inbox Slack channel"

	var analysis struct {
		Data json.RawMessage `json:"data"`
	}
	check("analyze intent", send(client, http.MethodPost, baseURL+"/api/analyze-intent", provider,
		map[string]string{"input": request}, &analysis))

	var generated struct {
		Data struct {
			Workflow json.RawMessage `json:"workflow_json"`
		} `json:"data"`
	}
	check("generate workflow", send(client, http.MethodPost, baseURL+"/api/generate-workflow", provider,
		map[string]any{"intent_analysis": analysis.Data, "user_input": request}, &generated))

	fmt.Printf("Generated workflow:\n%s\n", generated.Data.Workflow)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func check(step string, err error) {
	if err != nil {
		fmt.Printf("FAILED: %s: %v\n", step, err)
		os.Exit(1)
	}
	fmt.Println("PASSED:", step)
}

func send(client *http.Client, method, url, provider string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("provider-id", provider)
	if key := os.Getenv("AUTOFLOW_API_KEY"); key != "" {
		req.Header.Set("api-key", key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}
