package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ProviderConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type LLMConfig struct {
	DefaultProvider string                    `toml:"default_provider"`
	Providers       map[string]ProviderConfig `toml:"providers"`
}

type N8nConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type Context7Config struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type RegistryConfig struct {
	CacheTTL  Duration `toml:"cache_ttl"`
	Store     string   `toml:"store"` // "memory" or "redis"
	RedisAddr string   `toml:"redis_addr"`
	RedisKey  string   `toml:"redis_key"`
}

type BuilderConfig struct {
	Annotate         bool `toml:"annotate"`
	StrictVocabulary bool `toml:"strict_vocabulary"`
}

type RepairConfig struct {
	MaxAttempts int `toml:"max_attempts"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	N8n      N8nConfig      `toml:"n8n"`
	Context7 Context7Config `toml:"context7"`
	Registry RegistryConfig `toml:"registry"`
	Builder  BuilderConfig  `toml:"builder"`
	Repair   RepairConfig   `toml:"repair"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// Duration lets TOML files spell durations as "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]ProviderConfig{
				"openai":    {Model: "gpt-4"},
				"xai":       {Model: "grok-4-latest", BaseURL: "https://api.x.ai/v1"},
				"deepseek":  {Model: "deepseek-chat", BaseURL: "https://api.deepseek.com/v1"},
				"gemini":    {Model: "gemini-2.5-flash"},
				"anthropic": {Model: "claude-3-5-sonnet-20241022"},
			},
		},
		Context7: Context7Config{BaseURL: "https://context7.com/api/v2"},
		Registry: RegistryConfig{
			CacheTTL: Duration{30 * time.Minute},
			Store:    "memory",
			RedisKey: "autoflow:registry:snapshot",
		},
		Builder: BuilderConfig{Annotate: true},
		Repair:  RepairConfig{MaxAttempts: 3},
		Server:  ServerConfig{Port: "8080"},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads a TOML file on top of Default. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when present.
// Provider API keys are deliberately not read here; they are resolved per
// request so a caller-supplied key always wins.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("AUTOFLOW_PROVIDER"); v != "" {
		c.LLM.DefaultProvider = v
	}
	if v := os.Getenv("N8N_URL"); v != "" {
		c.N8n.BaseURL = v
	}
	if v := os.Getenv("N8N_API_KEY"); v != "" {
		c.N8n.APIKey = v
	}
	if v := os.Getenv("CONTEXT7_API_KEY"); v != "" {
		c.Context7.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Registry.Store = "redis"
		c.Registry.RedisAddr = v
	}
	if v := os.Getenv("AUTOFLOW_STRICT_VOCABULARY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Builder.StrictVocabulary = b
		}
	}
	if v := os.Getenv("AUTOFLOW_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

// Provider returns the settings for a provider name, falling back to an
// empty entry for names the file does not mention.
func (c *Config) Provider(name string) ProviderConfig {
	if p, ok := c.LLM.Providers[name]; ok {
		return p
	}
	return ProviderConfig{}
}
