// Package search finds candidate reference articles for a headline.
package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/cache"
	"github.com/ppiankov/newsguard/internal/extract"
	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/util"
)

// Result is one search hit
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher finds web pages for a query
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// ErrNotConfigured is returned by searchers missing credentials
var ErrNotConfigured = errors.New("search backend not configured")

// URLs returns the result links in order, without duplicates
func URLs(results []Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	if deduped := extract.DedupeURLs(urls); deduped != nil {
		return deduped
	}
	return []string{}
}

// Fallback queries primary and falls through to secondary when primary
// fails or finds nothing
type Fallback struct {
	primary   Searcher
	secondary Searcher
	logger    *zap.Logger
}

// NewFallback creates a Fallback searcher
func NewFallback(primary, secondary Searcher, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Name implements Searcher
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Search implements Searcher
func (f *Fallback) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := f.primary.Search(ctx, query)
	if err == nil && len(results) > 0 {
		return results, nil
	}
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		f.logger.Warn("primary search failed",
			zap.String("searcher", f.primary.Name()),
			zap.String("query", query),
			zap.Error(err))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return f.secondary.Search(ctx, query)
}

// Cached memoizes successful searches
type Cached struct {
	inner Searcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCached wraps inner with c
func NewCached(inner Searcher, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: c, ttl: ttl}
}

// Name implements Searcher
func (c *Cached) Name() string { return c.inner.Name() }

// Search implements Searcher
func (c *Cached) Search(ctx context.Context, query string) ([]Result, error) {
	key := cache.Key(cache.NamespaceSearch, c.inner.Name(), query)
	if results, ok := cache.Load[[]Result](c.cache, key); ok {
		return results, nil
	}

	results, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		_ = cache.Store(c.cache, key, results, c.ttl)
	}
	return results, nil
}

// New builds the configured searcher: Google Custom Search when
// credentials exist, the news feed otherwise or when Google finds nothing.
func New(cfg model.SearchConfig, httpCfg model.HTTPConfig, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) Searcher {
	transport := util.NewTransport(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy)

	feed := NewFeedSearcher(cfg.FeedURL, cfg.ResultsPerQuery, httpCfg.UserAgent, httpCfg.Timeout, transport)

	var s Searcher = feed
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		google := NewGoogleSearcher(cfg.GoogleAPIKey, cfg.GoogleCSEID, cfg.ResultsPerQuery, cfg.RequestsPerSecond, httpCfg.Timeout, transport)
		s = NewFallback(google, feed, logger)
	}

	if c != nil {
		s = NewCached(s, c, cacheTTL)
	}
	return s
}
