package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPAddr          = ":8080"
	DefaultLimit             = 10
	DefaultRefreshInterval   = 15 * time.Minute
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultBroadcastInterval = 30 * time.Second
	DefaultHealInterval      = 5 * time.Minute
	DefaultAuthHeader        = "X-API-Key"
)

// Config is the top-level trendpulse configuration.
// Fields map 1:1 to the YAML config file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Trending TrendingConfig `yaml:"trending"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Heal     HealConfig     `yaml:"heal"`
}

// ServerConfig holds the HTTP serving settings.
type ServerConfig struct {
	// HTTPAddr is the listen address for the REST API and WebSocket hub.
	HTTPAddr string `yaml:"http_addr"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// current overview to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// Auth configures API authentication for /api/v1/* endpoints.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig specifies how incoming API requests authenticate.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is expected in.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// TrendingConfig holds the aggregation engine settings.
type TrendingConfig struct {
	// DefaultLimit is the number of items returned when no limit is given.
	DefaultLimit int `yaml:"default_limit"`

	// RefreshInterval is both the background refresh period and the TTL of
	// cached results.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// HTTPTimeout applies to every outbound call an adapter makes.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Sources is the ordered list of providers to aggregate. Order matters:
	// it is the merge tie-break order. Unknown names are skipped with a
	// warning at startup rather than rejected here.
	Sources []Source `yaml:"sources"`
}

// Source describes one trending provider.
type Source struct {
	// Name selects the adapter: reddit | hackernews | github | rss.
	Name string `yaml:"name"`

	// FeedURL is the feed address for the rss adapter; unused otherwise.
	FeedURL string `yaml:"feed_url"`

	// Weight overrides the adapter's default score multiplier when > 0.
	Weight float64 `yaml:"weight"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert on per-source health.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "status == error" or
	// "stale_seconds > 3600".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// HealConfig controls the self-healing monitor.
type HealConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:          DefaultHTTPAddr,
			BroadcastInterval: DefaultBroadcastInterval,
			Auth:              AuthConfig{Header: DefaultAuthHeader},
		},
		Trending: TrendingConfig{
			DefaultLimit:    DefaultLimit,
			RefreshInterval: DefaultRefreshInterval,
			HTTPTimeout:     DefaultHTTPTimeout,
		},
		Heal: HealConfig{
			Enabled:  true,
			Interval: DefaultHealInterval,
		},
	}
}

// validate checks required fields and structural constraints. Unknown source
// names are deliberately not rejected here; they are skipped with a warning
// when adapters are wired up.
func validate(cfg *Config) error {
	if cfg.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey":
		if cfg.Server.Auth.KeyEnv == "" {
			return fmt.Errorf("server.auth.key_env is required when mode is apikey")
		}
	case "none", "":
	default:
		return fmt.Errorf("server.auth: unknown mode %q", cfg.Server.Auth.Mode)
	}

	if cfg.Trending.DefaultLimit <= 0 {
		return fmt.Errorf("trending.default_limit must be positive")
	}
	if cfg.Trending.RefreshInterval <= 0 {
		return fmt.Errorf("trending.refresh_interval must be positive")
	}
	if cfg.Trending.HTTPTimeout <= 0 {
		return fmt.Errorf("trending.http_timeout must be positive")
	}
	for i, src := range cfg.Trending.Sources {
		if src.Name == "" {
			return fmt.Errorf("trending.sources[%d]: name is required", i)
		}
		if src.Weight < 0 {
			return fmt.Errorf("trending.sources[%d] %q: weight must be positive", i, src.Name)
		}
		if src.Name == "rss" && src.FeedURL == "" {
			return fmt.Errorf("trending.sources[%d] %q: feed_url is required", i, src.Name)
		}
	}

	if cfg.Heal.Enabled && cfg.Heal.Interval <= 0 {
		return fmt.Errorf("heal.interval must be positive")
	}

	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "slack", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
	}
	for i, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, rule.Name)
		}
	}
	return nil
}
