// Package cli implements the autoflow command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/autoflow/internal/app"
	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/spf13/cobra"
)

// Opener builds the application from a config path.
type Opener func(configPath string) (*app.App, error)

// PipelineOpener resolves a provider and key into a pipeline.
type PipelineOpener func(ctx context.Context, a *app.App, provider, apiKey string) (*core.Pipeline, error)

type env struct {
	configPath string
	provider   string
	apiKey     string

	open     Opener
	pipeline PipelineOpener
}

func defaultOpen(configPath string) (*app.App, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func defaultPipeline(ctx context.Context, a *app.App, provider, apiKey string) (*core.Pipeline, error) {
	return a.Pipeline(ctx, provider, apiKey)
}

// NewRootCommand creates the root command with the production wiring.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultOpen, defaultPipeline)
}

func newRootCommand(open Opener, pipeline PipelineOpener) *cobra.Command {
	e := &env{open: open, pipeline: pipeline}

	cmd := &cobra.Command{
		Use:   "autoflow",
		Short: "Turn plain-language requests into n8n workflows",
		Long: `autoflow analyses a plain-language automation request, generates an
n8n workflow graph for it and can deploy the result to an n8n instance.

Provider API keys are read from --api-key or the provider's environment
variable (` + keyVariables() + `).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&e.configPath, "config", "", "Path to config file (default: config/config.toml)")
	cmd.PersistentFlags().StringVarP(&e.provider, "provider", "p", "", "LLM provider: openai, xai, deepseek, gemini or anthropic")
	cmd.PersistentFlags().StringVar(&e.apiKey, "api-key", "", "Provider API key (default: provider environment variable)")

	cmd.AddCommand(
		newAnalyzeCmd(e),
		newGenerateCmd(e),
		newNodesCmd(e),
		newServeCmd(e),
	)
	return cmd
}

// withPipeline opens the app and a pipeline, runs fn and closes both.
func (e *env) withPipeline(ctx context.Context, fn func(a *app.App, p *core.Pipeline) error) error {
	a, err := e.open(e.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := e.pipeline(ctx, a, e.provider, e.apiKey)
	if err != nil {
		return err
	}
	defer p.Close()

	return fn(a, p)
}

func keyVariables() string {
	names := make([]string, len(llm.Providers))
	for i, p := range llm.Providers {
		names[i] = llm.EnvVar(p)
	}
	return strings.Join(names, ", ")
}

// Report prints a failed command's error. Model output that could not be
// parsed follows the message so it can be inspected.
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	var e *apperr.Error
	if errors.As(err, &e) && e.Raw != "" {
		fmt.Fprintln(w, "Model output:")
		fmt.Fprintln(w, e.Raw)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
