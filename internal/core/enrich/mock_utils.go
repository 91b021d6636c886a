package enrich

import (
	"context"
	"sync"
)

// MockDocs serves canned libraries and snippets keyed by library name and
// id. Errors keyed the same way take precedence.
type MockDocs struct {
	Libraries   map[string][]Library
	SnippetsFor map[string][]Snippet
	SearchErr   map[string]error
	SnippetErr  map[string]error

	mu       sync.Mutex
	Searched []string
}

func (m *MockDocs) SearchLibraries(ctx context.Context, libraryName, query string) ([]Library, error) {
	m.mu.Lock()
	m.Searched = append(m.Searched, libraryName)
	m.mu.Unlock()

	if err := m.SearchErr[libraryName]; err != nil {
		return nil, err
	}
	return m.Libraries[libraryName], nil
}

func (m *MockDocs) Snippets(ctx context.Context, libraryID, query string, limit int) ([]Snippet, error) {
	if err := m.SnippetErr[libraryID]; err != nil {
		return nil, err
	}
	s := m.SnippetsFor[libraryID]
	if len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}
