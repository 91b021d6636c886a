// Package app assembles the process-wide collaborators shared by the server
// and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agenthands/autoflow/internal/config"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/core/enrich"
	"github.com/agenthands/autoflow/internal/core/registry"
	"github.com/agenthands/autoflow/internal/log"
	"github.com/agenthands/autoflow/internal/n8n"
	"github.com/agenthands/autoflow/internal/server"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.toml"

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *registry.Registry
	Docs     enrich.Docs
	N8n      *n8n.Client

	redis *redis.Client
}

// LoadConfig reads .env, then the TOML file, then environment overrides.
// An empty path uses CONFIG_PATH or config/config.toml; a missing default
// file falls back to built-in defaults.
func LoadConfig(path string) (*config.Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func New(cfg *config.Config) (*App, error) {
	logger, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(cfg, logger)
}

// NewWithLogger wires the registry store, catalog fetcher and documentation
// backend from cfg.
func NewWithLogger(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	opts := []registry.Option{
		registry.WithTTL(cfg.Registry.CacheTTL.Duration),
		registry.WithLogger(logger),
	}
	switch cfg.Registry.Store {
	case "", "memory":
	case "redis":
		if cfg.Registry.RedisAddr == "" {
			return nil, fmt.Errorf("registry store is redis but no redis_addr is set")
		}
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Registry.RedisAddr})
		opts = append(opts, registry.WithStore(registry.NewRedisStore(a.redis, cfg.Registry.RedisKey, cfg.Registry.CacheTTL.Duration)))
	default:
		return nil, fmt.Errorf("unknown registry store %q", cfg.Registry.Store)
	}

	var fetcher registry.Fetcher
	if cfg.N8n.BaseURL != "" {
		a.N8n = n8n.NewClient(cfg.N8n.BaseURL, cfg.N8n.APIKey, nil)
		fetcher = a.N8n
	}
	a.Registry = registry.New(fetcher, opts...)

	if cfg.Context7.APIKey != "" {
		a.Docs = enrich.NewContext7(cfg.Context7.BaseURL, cfg.Context7.APIKey, nil)
	} else {
		logger.Info("no documentation key configured, enrichment limited to usage hints")
	}
	return a, nil
}

// Pipeline opens a pipeline for one provider. The caller closes it.
func (a *App) Pipeline(ctx context.Context, provider, apiKey string) (*core.Pipeline, error) {
	if provider == "" {
		provider = a.Config.LLM.DefaultProvider
	}
	return core.Open(ctx, a.Config, provider, apiKey, core.Deps{
		Registry: a.Registry,
		Docs:     a.Docs,
		Logger:   a.Logger,
	})
}

func (a *App) Server() *server.Server {
	return server.New(a.Config, a.Registry, a.Docs, a.Logger)
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
