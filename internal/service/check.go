package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
)

// ProcessURL runs the full pipeline for one article URL: extract the
// article, pick headlines, gather references and verify. It implements
// worker.Processor.
func (s *Service) ProcessURL(ctx context.Context, rawURL string) (*model.ArticleReport, error) {
	if s.articles == nil || s.researcher == nil {
		return nil, fmt.Errorf("article pipeline not configured")
	}

	article, ok := s.articles.Extract(ctx, rawURL)
	if !ok {
		return nil, fmt.Errorf("no article content at %s", rawURL)
	}

	text := article.Content
	if article.Title != "" {
		text = article.Title + "\n\n" + text
	}
	headlines := s.verifier.ExtractHeadlines(ctx, text)

	var refs []model.ReferenceArticle
	for _, ref := range s.researcher.Articles(ctx, headlines) {
		// An article cannot corroborate itself
		if ref.URL == rawURL || (article.Source != "" && ref.Source == article.Source && ref.Title == article.Title) {
			continue
		}
		refs = append(refs, ref)
	}
	if refs == nil {
		refs = []model.ReferenceArticle{}
	}

	a := s.analyze(ctx, article.Content, refs)
	s.logger.Info("article checked",
		zap.String("url", rawURL),
		zap.Int("references", len(refs)),
		zap.String("outcome", string(a.Outcome)),
		zap.Int("authenticity_score", a.Result.AuthenticityScore))

	return &model.ArticleReport{
		URL:          rawURL,
		Article:      article,
		Headlines:    headlines,
		References:   refs,
		Verification: a.Result,
		Outcome:      string(a.Outcome),
		CheckedAt:    s.now().UTC(),
	}, nil
}
