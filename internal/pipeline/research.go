// Package pipeline runs the search flow: headlines in, corroborating
// articles (and optionally a verdict per headline) out.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/search"
	"github.com/ppiankov/newsguard/internal/verify"
)

// DefaultArticlesPerHeadline caps how many search hits are extracted
const DefaultArticlesPerHeadline = 3

// ArticleSource extracts a reference article from a URL
type ArticleSource interface {
	Extract(ctx context.Context, rawURL string) (model.ReferenceArticle, bool)
}

// Verifier is the authenticity check run per headline group
type Verifier interface {
	Analyze(ctx context.Context, original string, references []model.ReferenceArticle) verify.Analysis
}

// Researcher searches the web for each headline and collects articles
type Researcher struct {
	searcher    search.Searcher
	articles    ArticleSource
	verifier    Verifier // nil disables per-headline verification
	parallel    int
	perHeadline int
	logger      *zap.Logger
	now         func() time.Time
}

// ResearchOptions tunes a Researcher
type ResearchOptions struct {
	Parallel    int // headlines searched at once
	PerHeadline int // articles extracted per headline
	Logger      *zap.Logger
}

// NewResearcher creates a Researcher. verifier may be nil.
func NewResearcher(searcher search.Searcher, articles ArticleSource, verifier Verifier, opts ResearchOptions) *Researcher {
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.PerHeadline <= 0 {
		opts.PerHeadline = DefaultArticlesPerHeadline
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Researcher{
		searcher:    searcher,
		articles:    articles,
		verifier:    verifier,
		parallel:    opts.Parallel,
		perHeadline: opts.PerHeadline,
		logger:      opts.Logger,
		now:         time.Now,
	}
}

// Research runs the search flow for every headline. Headlines that yield
// no article with content are dropped; the rest keep their input order.
// With verifyEach set, each group is compared against original.
func (r *Researcher) Research(ctx context.Context, original string, headlines []string, verifyEach bool) model.ResearchReport {
	report := model.ResearchReport{
		OriginalText: original,
		Headlines:    cleanHeadlines(headlines),
		Results:      []model.HeadlineResult{},
	}

	slots := make([]*model.HeadlineResult, len(report.Headlines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, headline := range report.Headlines {
		g.Go(func() error {
			slots[i] = r.researchHeadline(gctx, original, headline, verifyEach)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range slots {
		if res != nil {
			report.Results = append(report.Results, *res)
		}
	}
	report.GeneratedAt = r.now().UTC()

	r.logger.Info("research completed",
		zap.Int("headlines", len(report.Headlines)),
		zap.Int("with_articles", len(report.Results)))
	return report
}

// Articles runs the search flow without verification and returns every
// article found, deduplicated by URL
func (r *Researcher) Articles(ctx context.Context, headlines []string) []model.ReferenceArticle {
	report := r.Research(ctx, "", headlines, false)

	seen := make(map[string]bool)
	articles := []model.ReferenceArticle{}
	for _, res := range report.Results {
		for _, a := range res.Articles {
			if !seen[a.URL] {
				seen[a.URL] = true
				articles = append(articles, a)
			}
		}
	}
	return articles
}

func (r *Researcher) researchHeadline(ctx context.Context, original, headline string, verifyEach bool) *model.HeadlineResult {
	results, err := r.searcher.Search(ctx, headline)
	if err != nil {
		r.logger.Warn("search failed", zap.String("headline", headline), zap.Error(err))
		return nil
	}

	urls := search.URLs(results)
	if len(urls) > r.perHeadline {
		urls = urls[:r.perHeadline]
	}

	articles := make([]model.ReferenceArticle, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		if article, ok := r.articles.Extract(ctx, u); ok {
			articles = append(articles, article)
		}
	}
	if len(articles) == 0 {
		r.logger.Debug("no articles for headline", zap.String("headline", headline), zap.Int("urls", len(urls)))
		return nil
	}

	res := &model.HeadlineResult{Headline: headline, Articles: articles}
	if verifyEach && r.verifier != nil {
		a := r.verifier.Analyze(ctx, original, articles)
		res.Verification = &a.Result
	}
	return res
}

func cleanHeadlines(headlines []string) []string {
	out := make([]string, 0, len(headlines))
	seen := make(map[string]bool)
	for _, h := range headlines {
		h = strings.TrimSpace(h)
		key := strings.ToLower(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
