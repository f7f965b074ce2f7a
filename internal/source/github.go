package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/trendpulse/trendpulse/internal/trending"
)

const gitHubURL = "https://api.github.com/search/repositories"

// gitHubSource fetches the most-starred repositories from the GitHub search
// API. Scores are star counts, which run orders of magnitude above HN points;
// the configured weight is what keeps the two comparable after merging.
type gitHubSource struct {
	client  *http.Client
	baseURL string
	weight  float64
}

func (s *gitHubSource) Name() string { return "github" }

func (s *gitHubSource) Weight() float64 { return s.weight }

func (s *gitHubSource) Fetch(ctx context.Context, limit int) ([]trending.TrendingItem, error) {
	var payload struct {
		Items []struct {
			FullName    string  `json:"full_name"`
			HTMLURL     string  `json:"html_url"`
			Stars       float64 `json:"stargazers_count"`
			Description string  `json:"description"`
			Language    string  `json:"language"`
		} `json:"items"`
	}

	q := url.Values{}
	q.Set("q", "stars:>1")
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", strconv.Itoa(limit))
	header := http.Header{"Accept": {"application/vnd.github+json"}}
	if err := getJSON(ctx, s.client, s.baseURL+"?"+q.Encode(), header, &payload); err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}

	items := make([]trending.TrendingItem, 0, limit)
	for _, repo := range payload.Items {
		if len(items) >= limit {
			break
		}
		if repo.FullName == "" || repo.HTMLURL == "" {
			continue
		}
		items = append(items, trending.TrendingItem{
			Title:  repo.FullName,
			URL:    repo.HTMLURL,
			Source: s.Name(),
			Score:  repo.Stars,
			Metadata: map[string]any{
				"description": repo.Description,
				"language":    repo.Language,
				"stars":       repo.Stars,
			},
		})
	}
	return items, nil
}
