// Package source provides the trending provider adapters. Each adapter
// normalizes one upstream API (Reddit's popular listing, the Hacker News
// front page, GitHub's most-starred repository search, or a generic RSS
// feed) into trending.TrendingItem values and carries a fixed name and score
// weight. Factory: New(config.Source, timeout) returns the matching adapter.
//
// Adapters drop items missing a title or URL and report upstream failures as
// *FetchError carrying the source name and cause.
package source
