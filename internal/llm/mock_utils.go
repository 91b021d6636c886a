package llm

import (
	"context"
	"sync"
)

// MockCall records one Complete invocation.
type MockCall struct {
	SystemPrompt string
	UserPrompt   string
	Options      Options
}

// MockClient returns queued responses in order, then Response forever.
// Errors queued in ErrQueue are returned before any response.
type MockClient struct {
	Name          Provider
	Response      string
	ResponseQueue []string
	Err           error
	ErrQueue      []error

	mu    sync.Mutex
	Calls []MockCall
}

func (m *MockClient) Provider() Provider {
	if m.Name == "" {
		return ProviderOpenAI
	}
	return m.Name
}

func (m *MockClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Options: opts})

	if len(m.ErrQueue) > 0 {
		err := m.ErrQueue[0]
		m.ErrQueue = m.ErrQueue[1:]
		if err != nil {
			return "", err
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
