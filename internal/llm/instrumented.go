package llm

import (
	"context"
	"time"

	"github.com/agenthands/autoflow/internal/metrics"
	"go.uber.org/zap"
)

// Instrumented records request counts and latency around another client.
type Instrumented struct {
	next   Client
	logger *zap.Logger
}

func NewInstrumented(next Client, logger *zap.Logger) *Instrumented {
	return &Instrumented{next: next, logger: logger}
}

func (c *Instrumented) Provider() Provider {
	return c.next.Provider()
}

func (c *Instrumented) Close() error {
	return Close(c.next)
}

func (c *Instrumented) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	provider := string(c.next.Provider())
	start := time.Now()

	text, err := c.next.Complete(ctx, systemPrompt, userPrompt, opts)

	elapsed := time.Since(start)
	metrics.LLMDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if err != nil {
		metrics.LLMRequests.WithLabelValues(provider, "error").Inc()
		c.logger.Warn("completion failed",
			zap.String("provider", provider),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", err
	}

	metrics.LLMRequests.WithLabelValues(provider, "ok").Inc()
	c.logger.Debug("completion finished",
		zap.String("provider", provider),
		zap.Duration("elapsed", elapsed),
		zap.Int("chars", len(text)),
		zap.Bool("json", opts.ForceJSON))
	return text, nil
}
