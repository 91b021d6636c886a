// Package registry serves the catalog of node types the target instance can
// execute, with a cached snapshot and a built-in fallback.
package registry

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/metrics"
	"github.com/agenthands/autoflow/internal/n8n"
	"go.uber.org/zap"
)

const (
	DefaultTTL     = 30 * time.Minute
	recommendLimit = 5
)

// Fetcher lists node types from the instance. *n8n.Client satisfies it.
type Fetcher interface {
	ListNodeTypes(ctx context.Context) ([]n8n.NodeType, error)
}

type Registry struct {
	fetcher Fetcher
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Registry)

func WithStore(s Store) Option {
	return func(r *Registry) { r.store = s }
}

func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New builds a registry. A nil fetcher means no instance is configured and
// every call is answered from the built-in list.
func New(fetcher Fetcher, opts ...Option) *Registry {
	r := &Registry{
		fetcher: fetcher,
		store:   NewMemoryStore(),
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the catalog. It never fails: cache read, refresh and decode
// errors all degrade to the built-in list.
func (r *Registry) List(ctx context.Context) []model.Capability {
	snap, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("catalog cache unavailable", zap.Error(err))
	}
	if snap != nil && r.now().Sub(snap.FetchedAt) < r.ttl {
		return slices.Clone(snap.Entries)
	}

	if r.fetcher == nil {
		return Builtins()
	}

	entries, err := r.fetch(ctx)
	if err != nil {
		metrics.RegistryFallbacks.Inc()
		r.logger.Warn("using built-in catalog", zap.Error(err))
		return Builtins()
	}

	fresh := &Snapshot{Entries: entries, FetchedAt: r.now()}
	if err := r.store.Save(ctx, fresh); err != nil {
		r.logger.Warn("failed to cache catalog", zap.Error(err))
	}
	return slices.Clone(entries)
}

func (r *Registry) fetch(ctx context.Context) ([]model.Capability, error) {
	types, err := r.fetcher.ListNodeTypes(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRegistryFetch, err, "failed to fetch node types")
	}
	if len(types) == 0 {
		return nil, apperr.New(apperr.KindRegistryFetch, "instance returned an empty catalog")
	}

	entries := make([]model.Capability, 0, len(types))
	for _, t := range types {
		if t.Name == "" {
			continue
		}
		entries = append(entries, toCapability(t))
	}
	return entries, nil
}

// Builtins returns a fresh copy of the fallback catalog.
func Builtins() []model.Capability {
	out := make([]model.Capability, len(builtinTypes))
	for i, t := range builtinTypes {
		out[i] = toCapability(t)
	}
	return out
}

// Search matches keyword case-insensitively against name, display name and
// description. First-party entries sort ahead of the rest; ties keep catalog
// order.
func (r *Registry) Search(ctx context.Context, keyword string) []model.Capability {
	return search(r.List(ctx), keyword)
}

func search(entries []model.Capability, keyword string) []model.Capability {
	kw := strings.ToLower(keyword)
	var results []model.Capability
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), kw) ||
			strings.Contains(strings.ToLower(e.DisplayName), kw) ||
			strings.Contains(strings.ToLower(e.Description), kw) {
			results = append(results, e)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].IsBuiltIn && !results[j].IsBuiltIn
	})
	return results
}

// Recommend expands text into keywords and returns the first five distinct
// matches across all of them.
func (r *Registry) Recommend(ctx context.Context, text string) []model.Capability {
	entries := r.List(ctx)

	seen := make(map[string]bool)
	var out []model.Capability
	for _, kw := range Keywords(text) {
		for _, e := range search(entries, kw) {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	if len(out) > recommendLimit {
		out = out[:recommendLimit]
	}
	return out
}

// serviceKeywords expands service mentions into catalog search terms.
// Order matters: it fixes the order recommendations come out in.
// Mentions flagged word must appear as a separate word ("ai" is inside
// "email").
var serviceKeywords = []struct {
	mention string
	word    bool
	terms   []string
}{
	{"slack", false, []string{"slack"}},
	{"gmail", false, []string{"gmail", "google"}},
	{"sheets", false, []string{"googlesheets", "google", "spreadsheet"}},
	{"discord", false, []string{"discord"}},
	{"telegram", false, []string{"telegram"}},
	{"notion", false, []string{"notion"}},
	{"webhook", false, []string{"webhook", "http"}},
	{"email", false, []string{"gmail", "email", "imap", "smtp"}},
	{"ai", true, []string{"langchain", "openai", "gemini", "anthropic", "agent"}},
	{"gemini", false, []string{"gemini", "google", "langchain"}},
	{"gpt", false, []string{"openai", "langchain"}},
	{"translate", false, []string{"code", "http"}},
	{"analyze", false, []string{"langchain", "agent", "code"}},
}

// Keywords returns the deduplicated search terms for text: dictionary
// expansions first, then the raw words longer than two characters.
func Keywords(text string) []string {
	lower := strings.ToLower(text)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var keywords []string
	for _, s := range serviceKeywords {
		if (s.word && slices.Contains(words, s.mention)) || (!s.word && strings.Contains(lower, s.mention)) {
			keywords = append(keywords, s.terms...)
		}
	}
	for _, w := range strings.Fields(lower) {
		if utf8.RuneCountInString(w) > 2 {
			keywords = append(keywords, w)
		}
	}

	seen := make(map[string]bool, len(keywords))
	out := keywords[:0]
	for _, k := range keywords {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Names returns the vocabulary tokens of entries, in order.
func Names(entries []model.Capability) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
