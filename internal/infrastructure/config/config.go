// Package config resolves daybrief settings from daybrief.yaml and the
// environment. It is read once at startup and passed to wiring.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "daybrief.yaml"

// Config is the resolved process configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	AI       AIConfig       `yaml:"ai"`
	Log      LogConfig      `yaml:"log"`
	Demo     DemoConfig     `yaml:"demo"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AIConfig selects the reasoning backend. APIKey is only ever read from the
// environment.
type AIConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"`
	APIKey     string `yaml:"-"`
}

// Enabled reports whether rankings should go through the backend.
func (c AIConfig) Enabled() bool {
	if c.Provider == "mock" {
		return true
	}
	return c.APIKey != ""
}

// Timeout returns the per-call budget.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DemoConfig struct {
	Seed bool `yaml:"seed"`
}

// WebhooksConfig lists outgoing item-change webhooks. Failed deliveries are
// appended to DeadLetterFile when it is set.
type WebhooksConfig struct {
	DeadLetterFile string            `yaml:"dead_letter_file"`
	Endpoints      []WebhookEndpoint `yaml:"endpoints"`
}

// WebhookEndpoint is one webhook target. The signing secret is read from
// the environment variable named by SecretEnv.
type WebhookEndpoint struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	SecretEnv     string   `yaml:"secret_env"`
	Events        []string `yaml:"events"`
	MaxRetries    int      `yaml:"max_retries"`
	RetryDelaySec int      `yaml:"retry_delay_sec"`
	Secret        string   `yaml:"-"`
}

// RetryDelay returns the initial retry delay, zero when unset.
func (e WebhookEndpoint) RetryDelay() time.Duration {
	return time.Duration(e.RetryDelaySec) * time.Second
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		AI: AIConfig{
			Provider:   "openai",
			Model:      "gpt-4o",
			TimeoutSec: 30,
			MaxRetries: 2,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error unless the path was given explicitly.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg, lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("DAYBRIEF_ADDR"); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookup("DAYBRIEF_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup("DAYBRIEF_AI_PROVIDER"); ok && v != "" {
		cfg.AI.Provider = strings.ToLower(v)
	}
	if v, ok := lookup("OPENAI_MODEL"); ok && v != "" && cfg.AI.Provider == "openai" {
		cfg.AI.Model = v
	}

	for i := range cfg.Webhooks.Endpoints {
		ep := &cfg.Webhooks.Endpoints[i]
		if ep.SecretEnv != "" {
			ep.Secret, _ = lookup(ep.SecretEnv)
		}
	}

	switch cfg.AI.Provider {
	case "openai":
		cfg.AI.APIKey, _ = lookup("OPENAI_API_KEY")
	case "anthropic":
		cfg.AI.APIKey, _ = lookup("ANTHROPIC_API_KEY")
		if cfg.AI.Model == "gpt-4o" {
			cfg.AI.Model = ""
		}
	}
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unsupported ai.provider %q (want openai, anthropic or mock)", c.AI.Provider)
	}
	if c.AI.TimeoutSec <= 0 {
		return fmt.Errorf("ai.timeout_sec must be positive, got %d", c.AI.TimeoutSec)
	}
	if c.AI.MaxRetries < 1 {
		return fmt.Errorf("ai.max_retries must be at least 1, got %d", c.AI.MaxRetries)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log.format %q (want text or json)", c.Log.Format)
	}
	for i, ep := range c.Webhooks.Endpoints {
		if !strings.HasPrefix(ep.URL, "http://") && !strings.HasPrefix(ep.URL, "https://") {
			return fmt.Errorf("webhooks.endpoints[%d].url must be an http(s) URL, got %q", i, ep.URL)
		}
		if ep.MaxRetries < 0 || ep.RetryDelaySec < 0 {
			return fmt.Errorf("webhooks.endpoints[%d]: retry settings must not be negative", i)
		}
	}
	return nil
}
