package source

import (
	"testing"
	"time"

	"github.com/trendpulse/trendpulse/internal/config"
)

func TestNew_KnownSources(t *testing.T) {
	cases := []struct {
		cfg    config.Source
		weight float64
	}{
		{config.Source{Name: "reddit"}, redditWeight},
		{config.Source{Name: "hackernews"}, hackerNewsWeight},
		{config.Source{Name: "github"}, gitHubWeight},
		{config.Source{Name: "rss", FeedURL: "https://blog.example.com/feed"}, rssWeight},
	}
	for _, tc := range cases {
		s, err := New(tc.cfg, 10*time.Second)
		if err != nil {
			t.Errorf("New(%q): %v", tc.cfg.Name, err)
			continue
		}
		if s.Name() != tc.cfg.Name {
			t.Errorf("name: got %q, want %q", s.Name(), tc.cfg.Name)
		}
		if s.Weight() != tc.weight {
			t.Errorf("%s weight: got %v, want %v", tc.cfg.Name, s.Weight(), tc.weight)
		}
	}
}

func TestNew_WeightOverride(t *testing.T) {
	s, err := New(config.Source{Name: "github", Weight: 0.5}, 10*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Weight() != 0.5 {
		t.Errorf("weight: got %v, want 0.5", s.Weight())
	}
}

func TestNew_UnknownSource(t *testing.T) {
	if _, err := New(config.Source{Name: "mastodon"}, 10*time.Second); err == nil {
		t.Fatal("expected error for unknown source name")
	}
}
