// Package server exposes the synthesis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/autoflow/internal/config"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/core/enrich"
	"github.com/agenthands/autoflow/internal/core/registry"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/agenthands/autoflow/internal/metrics"
	"github.com/agenthands/autoflow/internal/n8n"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	headerProvider  = "provider-id"
	headerAPIKey    = "api-key"
	shutdownTimeout = 10 * time.Second
)

// PipelineFactory builds a pipeline for the provider and key named by a
// request. An empty key falls back to the provider's environment variable.
type PipelineFactory func(ctx context.Context, provider, apiKey string) (*core.Pipeline, error)

// DeployerFactory opens a client for the n8n instance named in a deploy
// request.
type DeployerFactory func(baseURL, apiKey string) core.Deployer

type Server struct {
	cfg         *config.Config
	registry    *registry.Registry
	newPipeline PipelineFactory
	newDeployer DeployerFactory
	validate    *validator.Validate
	logger      *zap.Logger
}

type Option func(*Server)

func WithPipelineFactory(f PipelineFactory) Option {
	return func(s *Server) { s.newPipeline = f }
}

func WithDeployerFactory(f DeployerFactory) Option {
	return func(s *Server) { s.newDeployer = f }
}

// New builds a server around one shared registry. docs may be nil when no
// documentation key is configured.
func New(cfg *config.Config, reg *registry.Registry, docs enrich.Docs, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		registry: reg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	s.newPipeline = func(ctx context.Context, provider, apiKey string) (*core.Pipeline, error) {
		return core.Open(ctx, cfg, provider, apiKey, core.Deps{Registry: reg, Docs: docs, Logger: logger})
	}
	s.newDeployer = func(baseURL, apiKey string) core.Deployer {
		return n8n.NewClient(baseURL, apiKey, nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/analyze-intent", s.Examples)
	api.POST("/analyze-intent", s.AnalyzeIntent)
	api.POST("/modify-intent", s.ModifyIntent)
	api.POST("/generate-workflow", s.GenerateWorkflow)
	api.POST("/debug-workflow", s.DebugWorkflow)
	api.POST("/deploy-workflow", s.DeployWorkflow)
	api.GET("/nodes/search", s.SearchNodes)
	api.GET("/nodes/recommend", s.RecommendNodes)

	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// pipeline resolves the provider headers into a pipeline. On failure the
// problem response has already been written.
func (s *Server) pipeline(c *gin.Context) (*core.Pipeline, bool) {
	provider := strings.ToLower(strings.TrimSpace(c.GetHeader(headerProvider)))
	if provider == "" {
		provider = s.cfg.LLM.DefaultProvider
	}
	if provider == "" {
		provider = string(llm.ProviderOpenAI)
	}

	p, err := s.newPipeline(c.Request.Context(), provider, c.GetHeader(headerAPIKey))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return p, true
}

// bind decodes and validates a JSON body. On failure a 400 problem has
// already been written.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) closePipeline(p *core.Pipeline) {
	if err := p.Close(); err != nil {
		s.logger.Warn("failed to close provider client", zap.Error(err))
	}
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
