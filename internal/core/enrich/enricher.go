// Package enrich gathers best-effort documentation context for workflow
// generation.
package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/metrics"
	"go.uber.org/zap"
)

const (
	snippetFetchLimit  = 5
	snippetRenderLimit = 3
	snippetMaxChars    = 500
)

type Enricher struct {
	docs   Docs
	logger *zap.Logger
}

// NewEnricher builds an enricher. A nil docs backend disables the
// documentation part; the usage guide is still produced.
func NewEnricher(docs Docs, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{docs: docs, logger: logger}
}

// Enrich returns a markdown fragment for the generation prompt, possibly
// empty. It never fails; each library lookup is isolated from the others.
func (e *Enricher) Enrich(ctx context.Context, userText string, requiredNodes []string) string {
	var b strings.Builder

	if e.docs != nil {
		for _, lib := range Libraries(requiredNodes) {
			section, err := e.library(ctx, lib, userText)
			if err != nil {
				metrics.EnrichmentFailures.WithLabelValues(lib).Inc()
				e.logger.Warn("skipping documentation", zap.String("library", lib), zap.Error(err))
				continue
			}
			b.WriteString(section)
		}
	}

	if guide := Guide(userText); guide != "" {
		b.WriteString(guide)
	}
	return b.String()
}

func (e *Enricher) library(ctx context.Context, name, userText string) (string, error) {
	libs, err := e.docs.SearchLibraries(ctx, name, userText)
	if err != nil {
		return "", apperr.Wrap(apperr.KindEnrichment, err, "library search failed")
	}
	if len(libs) == 0 {
		return "", nil
	}
	lib := libs[0]

	snippets, err := e.docs.Snippets(ctx, lib.ID, userText, snippetFetchLimit)
	if err != nil {
		return "", apperr.Wrap(apperr.KindEnrichment, err, "snippet fetch failed for %s", lib.ID)
	}
	if len(snippets) == 0 {
		return "", nil
	}
	return renderLibrary(lib, snippets), nil
}

func renderLibrary(lib Library, snippets []Snippet) string {
	latest := "N/A"
	if len(lib.Versions) > 0 && lib.Versions[0] != "" {
		latest = lib.Versions[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n## %s (Latest: %s)\n", lib.Title, latest)
	fmt.Fprintf(&b, "**Trust Score**: %s/10 | **Stars**: %s\n",
		strconv.FormatFloat(lib.TrustScore, 'f', -1, 64), groupThousands(lib.Stars))
	fmt.Fprintf(&b, "**Updated**: %s\n\n", formatDate(lib.LastUpdateDate))

	for i, s := range snippets {
		if i == snippetRenderLimit {
			break
		}
		fmt.Fprintf(&b, "### %s\n", s.Title)
		fmt.Fprintf(&b, "```\n%s\n```\n\n", truncateRunes(s.Content, snippetMaxChars))
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func formatDate(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02")
	}
	if raw == "" {
		return "unknown"
	}
	return raw
}
