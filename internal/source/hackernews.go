package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trendpulse/trendpulse/internal/trending"
)

const hackerNewsURL = "https://hn.algolia.com/api/v1/search"

// hackerNewsSource fetches the Hacker News front page via the Algolia search
// API. Scores are HN points. Link posts carry title/url directly; comments
// on stories fall back to the parent story's title and url.
type hackerNewsSource struct {
	client  *http.Client
	baseURL string
	weight  float64
}

func (s *hackerNewsSource) Name() string { return "hackernews" }

func (s *hackerNewsSource) Weight() float64 { return s.weight }

func (s *hackerNewsSource) Fetch(ctx context.Context, limit int) ([]trending.TrendingItem, error) {
	var payload struct {
		Hits []struct {
			Title       string  `json:"title"`
			StoryTitle  string  `json:"story_title"`
			URL         string  `json:"url"`
			StoryURL    string  `json:"story_url"`
			Points      float64 `json:"points"`
			Author      string  `json:"author"`
			NumComments int     `json:"num_comments"`
		} `json:"hits"`
	}

	url := fmt.Sprintf("%s?tags=front_page&hitsPerPage=%d", s.baseURL, limit)
	if err := getJSON(ctx, s.client, url, nil, &payload); err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}

	items := make([]trending.TrendingItem, 0, limit)
	for _, hit := range payload.Hits {
		if len(items) >= limit {
			break
		}
		title := hit.Title
		if title == "" {
			title = hit.StoryTitle
		}
		link := hit.URL
		if link == "" {
			link = hit.StoryURL
		}
		if title == "" || link == "" {
			continue
		}
		items = append(items, trending.TrendingItem{
			Title:  title,
			URL:    link,
			Source: s.Name(),
			Score:  hit.Points,
			Metadata: map[string]any{
				"author":   hit.Author,
				"comments": hit.NumComments,
			},
		})
	}
	return items, nil
}
