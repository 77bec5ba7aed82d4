package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/cache"
	"github.com/ppiankov/newsguard/internal/extract"
	"github.com/ppiankov/newsguard/internal/model"
)

// Articles fetches pages and turns them into reference articles
type Articles struct {
	fetcher   *Fetcher
	extractor *extract.ArticleExtractor
	cache     cache.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewArticles creates an article source. c may be nil.
func NewArticles(fetcher *Fetcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Articles {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Articles{
		fetcher:   fetcher,
		extractor: extract.NewArticleExtractor(),
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

// Extract fetches rawURL and extracts its article. ok is false when the
// page could not be fetched or has no body text; failures are logged.
func (a *Articles) Extract(ctx context.Context, rawURL string) (model.ReferenceArticle, bool) {
	key := cache.Key(cache.NamespaceArticle, rawURL)
	if article, ok := cache.Load[model.ReferenceArticle](a.cache, key); ok {
		return article, article.HasContent()
	}

	fetched, err := a.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		a.logger.Warn("article fetch failed", zap.String("url", rawURL), zap.Error(err))
		return model.ReferenceArticle{}, false
	}

	article, err := a.extractor.Extract(fetched.HTML, fetched.FinalURL)
	if err != nil {
		a.logger.Warn("article extraction failed", zap.String("url", rawURL), zap.Error(err))
		return model.ReferenceArticle{}, false
	}
	// Keep the requested URL so search results and cache keys line up
	article.URL = rawURL

	// Empty pages are cached too so they are not refetched for every headline
	_ = cache.Store(a.cache, key, article, a.ttl)

	if !article.HasContent() {
		a.logger.Debug("article has no body text", zap.String("url", rawURL))
		return article, false
	}
	return article, true
}
