package search

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/ppiankov/newsguard/internal/extract"
)

// FeedSearcher runs the query against a news search feed (RSS or Atom).
// The template's %s is replaced with the escaped query.
type FeedSearcher struct {
	template string
	limit    int
	parser   *gofeed.Parser
	policy   *bluemonday.Policy
}

// NewFeedSearcher creates a feed-backed searcher
func NewFeedSearcher(template string, limit int, userAgent string, timeout time.Duration, transport http.RoundTripper) *FeedSearcher {
	if limit <= 0 {
		limit = 10
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout, Transport: transport}

	return &FeedSearcher{
		template: template,
		limit:    limit,
		parser:   parser,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Name implements Searcher
func (f *FeedSearcher) Name() string { return "feed" }

// Search implements Searcher
func (f *FeedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if f.template == "" || !strings.Contains(f.template, "%s") {
		return nil, ErrNotConfigured
	}

	feedURL := fmt.Sprintf(f.template, url.QueryEscape(query))
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed search: %w", err)
	}

	base, _ := url.Parse(feedURL)
	results := make([]Result, 0, min(len(feed.Items), f.limit))
	for _, item := range feed.Items {
		if len(results) == f.limit {
			break
		}
		link := extract.ResolveURL(base, item.Link)
		if link == "" {
			continue
		}
		results = append(results, Result{
			URL:     link,
			Title:   strings.TrimSpace(item.Title),
			Snippet: f.snippet(item.Description),
		})
	}
	return results, nil
}

// snippet strips markup from a feed description
func (f *FeedSearcher) snippet(description string) string {
	text := html.UnescapeString(f.policy.Sanitize(description))
	return extract.Truncate(strings.Join(strings.Fields(text), " "), 300)
}
