package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trendpulse/trendpulse/internal/trending"
)

const redditURL = "https://www.reddit.com/r/popular.json"

// redditSource fetches the current r/popular listing. Scores are Reddit
// upvote counts.
type redditSource struct {
	client  *http.Client
	baseURL string
	weight  float64
}

func (s *redditSource) Name() string { return "reddit" }

func (s *redditSource) Weight() float64 { return s.weight }

func (s *redditSource) Fetch(ctx context.Context, limit int) ([]trending.TrendingItem, error) {
	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Permalink   string  `json:"permalink"`
					Score       float64 `json:"score"`
					Subreddit   string  `json:"subreddit"`
					NumComments int     `json:"num_comments"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}

	url := fmt.Sprintf("%s?limit=%d", s.baseURL, limit)
	if err := getJSON(ctx, s.client, url, nil, &payload); err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}

	items := make([]trending.TrendingItem, 0, limit)
	for _, child := range payload.Data.Children {
		if len(items) >= limit {
			break
		}
		post := child.Data
		if post.Title == "" || post.Permalink == "" {
			continue
		}
		items = append(items, trending.TrendingItem{
			Title:  post.Title,
			URL:    "https://www.reddit.com" + post.Permalink,
			Source: s.Name(),
			Score:  post.Score,
			Metadata: map[string]any{
				"subreddit": post.Subreddit,
				"comments":  post.NumComments,
			},
		})
	}
	return items, nil
}
