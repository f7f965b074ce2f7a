package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// loadFromString writes yaml to a temp file and loads it, failing the test on
// error.
func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, yaml)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func loadStringErr(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

func TestLoad_Valid(t *testing.T) {
	yaml := `
server:
  http_addr: ":9090"
  broadcast_interval: 10s
trending:
  default_limit: 25
  refresh_interval: 5m
  http_timeout: 3s
  sources:
    - name: reddit
    - name: github
      weight: 2.0
    - name: rss
      feed_url: "https://lobste.rs/rss"
`
	cfg := loadFromString(t, yaml)

	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("http_addr: got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Trending.DefaultLimit != 25 {
		t.Errorf("default_limit: got %d", cfg.Trending.DefaultLimit)
	}
	if cfg.Trending.RefreshInterval != 5*time.Minute {
		t.Errorf("refresh_interval: got %v", cfg.Trending.RefreshInterval)
	}
	if len(cfg.Trending.Sources) != 3 {
		t.Fatalf("sources: got %d, want 3", len(cfg.Trending.Sources))
	}
	if cfg.Trending.Sources[1].Weight != 2.0 {
		t.Errorf("github weight: got %v", cfg.Trending.Sources[1].Weight)
	}
	if cfg.Trending.Sources[2].FeedURL != "https://lobste.rs/rss" {
		t.Errorf("feed_url: got %q", cfg.Trending.Sources[2].FeedURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
trending:
  sources:
    - name: hackernews
`
	cfg := loadFromString(t, yaml)

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("default http_addr: got %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Server.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("default broadcast_interval: got %v", cfg.Server.BroadcastInterval)
	}
	if cfg.Trending.DefaultLimit != DefaultLimit {
		t.Errorf("default limit: got %d, want %d", cfg.Trending.DefaultLimit, DefaultLimit)
	}
	if cfg.Trending.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("default refresh_interval: got %v", cfg.Trending.RefreshInterval)
	}
	if cfg.Trending.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("default http_timeout: got %v", cfg.Trending.HTTPTimeout)
	}
	if !cfg.Heal.Enabled {
		t.Error("heal enabled by default")
	}
	if cfg.Heal.Interval != DefaultHealInterval {
		t.Errorf("default heal interval: got %v", cfg.Heal.Interval)
	}
	if cfg.Server.Auth.Header != DefaultAuthHeader {
		t.Errorf("default auth header: got %q", cfg.Server.Auth.Header)
	}
}

func TestLoad_UnknownSourceNamePasses(t *testing.T) {
	// Unknown names are skipped at wiring time, not rejected here.
	yaml := `
trending:
  sources:
    - name: mastodon
`
	cfg := loadFromString(t, yaml)
	if len(cfg.Trending.Sources) != 1 {
		t.Errorf("sources: got %d, want 1", len(cfg.Trending.Sources))
	}
}

func TestLoad_InvalidDefaultLimit(t *testing.T) {
	yaml := `
trending:
  default_limit: -1
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for negative default_limit")
	}
}

func TestLoad_RSSRequiresFeedURL(t *testing.T) {
	yaml := `
trending:
  sources:
    - name: rss
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for rss source without feed_url")
	}
}

func TestLoad_NegativeWeight(t *testing.T) {
	yaml := `
trending:
  sources:
    - name: reddit
      weight: -0.5
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestLoad_APIKeyModeRequiresKeyEnv(t *testing.T) {
	yaml := `
server:
  auth:
    mode: apikey
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for apikey mode without key_env")
	}
}

func TestLoad_UnknownWebhookType(t *testing.T) {
	yaml := `
alerts:
  webhooks:
    - type: carrier-pigeon
      url_env: PIGEON_URL
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for unknown webhook type")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := loadStringErr(t, "trending: [not: a: map"); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestAuthConfig_KeyFromEnv(t *testing.T) {
	t.Setenv("TRENDPULSE_TEST_KEY", "s3cret")
	a := AuthConfig{Mode: "apikey", KeyEnv: "TRENDPULSE_TEST_KEY"}
	if got := a.Key(); got != "s3cret" {
		t.Errorf("key: got %q", got)
	}
	if got := (AuthConfig{}).Key(); got != "" {
		t.Errorf("empty key env: got %q", got)
	}
}
