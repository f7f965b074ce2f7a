package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/trending"
)

// userAgent identifies trendpulse to upstream providers that require one.
const userAgent = "trendpulse/0.2"

// Default weights reconcile the incompatible native score scales across
// providers (GitHub stars run far higher than HN points; RSS has no native
// score at all).
const (
	redditWeight     = 1.1
	hackerNewsWeight = 1.0
	gitHubWeight     = 1.2
	rssWeight        = 0.8
)

// FetchError reports a failed fetch from one provider. It carries the source
// name so the engine can attribute the failure in health records.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string { return fmt.Sprintf("source %s: %v", e.Source, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// New returns the adapter for the given source configuration. A weight set
// in the config overrides the adapter's default. Unknown names return an
// error; the caller decides whether that is fatal (at startup it is not;
// the source is skipped with a warning).
func New(src config.Source, timeout time.Duration) (trending.Source, error) {
	client := &http.Client{Timeout: timeout}
	switch src.Name {
	case "reddit":
		return &redditSource{client: client, baseURL: redditURL, weight: weightOr(src.Weight, redditWeight)}, nil
	case "hackernews":
		return &hackerNewsSource{client: client, baseURL: hackerNewsURL, weight: weightOr(src.Weight, hackerNewsWeight)}, nil
	case "github":
		return &gitHubSource{client: client, baseURL: gitHubURL, weight: weightOr(src.Weight, gitHubWeight)}, nil
	case "rss":
		parser := gofeed.NewParser()
		parser.Client = client
		parser.UserAgent = userAgent
		return &rssSource{parser: parser, feedURL: src.FeedURL, weight: weightOr(src.Weight, rssWeight)}, nil
	default:
		return nil, fmt.Errorf("source: unsupported name %q", src.Name)
	}
}

func weightOr(w, fallback float64) float64 {
	if w > 0 {
		return w
	}
	return fallback
}

// getJSON performs an HTTP GET against url and decodes the JSON response
// body into v. Non-200 responses and decode failures are errors.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Set(k, val)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
