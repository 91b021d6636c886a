package registry

import (
	"context"
	"sync"
	"time"

	"github.com/agenthands/autoflow/internal/n8n"
)

// MockFetcher returns Types or Err and counts calls. ErrQueue entries are
// consumed first; a nil entry lets the call succeed.
type MockFetcher struct {
	Types    []n8n.NodeType
	Err      error
	ErrQueue []error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) ListNodeTypes(ctx context.Context) ([]n8n.NodeType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.ErrQueue) > 0 {
		err := m.ErrQueue[0]
		m.ErrQueue = m.ErrQueue[1:]
		if err != nil {
			return nil, err
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Types, nil
}

func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeClock is advanced by hand in tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
