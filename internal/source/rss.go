package source

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/trendpulse/trendpulse/internal/trending"
)

// rssSource adapts an arbitrary RSS/Atom feed. Feeds carry no native score,
// so items are scored by position: the first entry gets the full limit, the
// last gets 1. The low default weight keeps positional scores from
// outranking providers with real engagement numbers.
type rssSource struct {
	parser  *gofeed.Parser
	feedURL string
	weight  float64
}

func (s *rssSource) Name() string { return "rss" }

func (s *rssSource) Weight() float64 { return s.weight }

func (s *rssSource) Fetch(ctx context.Context, limit int) ([]trending.TrendingItem, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}

	items := make([]trending.TrendingItem, 0, limit)
	for i, entry := range feed.Items {
		if len(items) >= limit || i >= limit {
			break
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		md := map[string]any{"feed": feed.Title}
		if entry.Author != nil && entry.Author.Name != "" {
			md["author"] = entry.Author.Name
		}
		if entry.PublishedParsed != nil {
			md["published"] = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		items = append(items, trending.TrendingItem{
			Title:    entry.Title,
			URL:      entry.Link,
			Source:   s.Name(),
			Score:    float64(limit - i),
			Metadata: md,
		})
	}
	return items, nil
}
