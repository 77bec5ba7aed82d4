// Package service composes the verification pipelines behind one facade
// used by both the CLI and the HTTP server.
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/cache"
	"github.com/ppiankov/newsguard/internal/imagecheck"
	"github.com/ppiankov/newsguard/internal/lang"
	"github.com/ppiankov/newsguard/internal/llm"
	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/ocr"
	"github.com/ppiankov/newsguard/internal/pipeline"
	"github.com/ppiankov/newsguard/internal/search"
	"github.com/ppiankov/newsguard/internal/store"
	"github.com/ppiankov/newsguard/internal/verify"
)

// Input errors. Callers map these to 400 responses or usage errors.
var (
	ErrEmptyInput       = errors.New("no input provided")
	ErrUnsupportedImage = errors.New("invalid file type. Please upload an image (PNG, JPG, JPEG, GIF, WEBP)")
	ErrOCRUnavailable   = errors.New("OCR not available. Please install tesseract")
	ErrNoReadableText   = errors.New("no readable text found in image")
	ErrOCRFailed        = errors.New("OCR failed")
)

// MaxURLsPerRequest caps URLs extracted for a single request
const MaxURLsPerRequest = 3

// minMemeText is the shortest OCR output worth verifying, in characters
const minMemeText = 10

// Verifier is the subset of verify.Verifier the service uses
type Verifier interface {
	Analyze(ctx context.Context, original string, references []model.ReferenceArticle) verify.Analysis
	AnalyzeCredibility(ctx context.Context, text, lang string) verify.CredibilityAnalysis
	ExtractHeadlines(ctx context.Context, text string) []string
}

// Researcher runs the search flow
type Researcher interface {
	Research(ctx context.Context, original string, headlines []string, verifyEach bool) model.ResearchReport
	Articles(ctx context.Context, headlines []string) []model.ReferenceArticle
}

// Deps are the collaborators of a Service. Only Verifier is required.
// Features are resolved from the collaborators when nil.
type Deps struct {
	Verifier   Verifier
	Researcher Researcher
	Searcher   search.Searcher
	Articles   pipeline.ArticleSource
	Languages  *lang.Service
	OCR        ocr.Engine
	Images     *imagecheck.Detector
	Recorder   *store.Recorder
	Cache      cache.Cache
	CacheTTL   time.Duration
	Model      string
	Logger     *zap.Logger
	Features   *Features
}

// Service is safe for concurrent use
type Service struct {
	features   Features
	verifier   Verifier
	researcher Researcher
	searcher   search.Searcher
	articles   pipeline.ArticleSource
	languages  *lang.Service
	ocr        ocr.Engine
	images     *imagecheck.Detector
	recorder   *store.Recorder
	cache      cache.Cache
	cacheTTL   time.Duration
	model      string
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Service from its collaborators
func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Languages == nil {
		d.Languages = lang.NewService(nil, false, d.Logger)
	}
	if d.Images == nil {
		d.Images = imagecheck.NewDetector(nil, d.Logger)
	}
	if d.Recorder == nil {
		d.Recorder = store.NewRecorder(nil, d.Logger)
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Features == nil {
		f := Features{
			TranslationAvailable: d.Languages.TranslationAvailable(),
			OCRAvailable:         d.OCR != nil && d.OCR.Available(),
			ModelAvailable:       d.Model != "",
		}
		d.Features = &f
	}
	return &Service{
		features:   *d.Features,
		verifier:   d.Verifier,
		researcher: d.Researcher,
		searcher:   d.Searcher,
		articles:   d.Articles,
		languages:  d.Languages,
		ocr:        d.OCR,
		images:     d.Images,
		recorder:   d.Recorder,
		cache:      d.Cache,
		cacheTTL:   d.CacheTTL,
		model:      d.Model,
		logger:     d.Logger,
		now:        time.Now,
	}
}

// Build wires every component from cfg. The returned close function
// flushes pending store writes and releases connections.
func Build(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Service, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := cache.New(cfg.Cache, logger.Named("cache"))
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM, cfg.HTTP), logger.Named("llm"))
	if err != nil {
		// Keep serving: verification degrades to model_unavailable results
		// and headlines fall back to the local heuristic.
		logger.Warn("language model disabled", zap.Error(err))
		provider = nil
	}
	invoker := llm.NewInvoker(provider, logger.Named("llm"))
	verifier := verify.NewVerifier(invoker, verify.WithLogger(logger.Named("verify")))

	searcher := search.New(cfg.Search, cfg.HTTP, c, cfg.Cache.DiskTTL, logger.Named("search"))
	fetcher := pipeline.NewFetcherFromConfig(cfg.HTTP, logger.Named("fetch"))
	articles := pipeline.NewArticles(fetcher, c, cfg.Cache.DiskTTL, logger.Named("articles"))
	researcher := pipeline.NewResearcher(searcher, articles, verifier, pipeline.ResearchOptions{
		Parallel:    cfg.Concurrency.HeadlineParallel,
		PerHeadline: cfg.Search.ArticlesPerQuery,
		Logger:      logger.Named("research"),
	})

	var engine ocr.Engine
	if t := ocr.NewFromConfig(cfg.OCR, logger.Named("ocr")); t != nil {
		engine = t
	}

	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.Open(cfg.Store, logger.Named("store"))
		if err != nil {
			return nil, nil, err
		}
	}
	recorder := store.NewRecorder(st, logger.Named("store"))

	languages := lang.NewServiceFromConfig(cfg.Language, cfg.HTTP, logger.Named("lang"))
	features := resolveFeatures(ctx, provider, languages, engine)
	logger.Info("features resolved",
		zap.Bool("model", features.ModelAvailable),
		zap.Bool("translation", features.TranslationAvailable),
		zap.Bool("ocr", features.OCRAvailable))

	svc := New(Deps{
		Features:   &features,
		Verifier:   verifier,
		Researcher: researcher,
		Searcher:   searcher,
		Articles:   articles,
		Languages:  languages,
		OCR:        engine,
		Images:     imagecheck.NewDetectorFromConfig(cfg.Image, cfg.HTTP, logger.Named("image")),
		Recorder:   recorder,
		Cache:      c,
		CacheTTL:   cfg.Cache.DiskTTL,
		Model:      invoker.Model(),
		Logger:     logger,
	})

	closeFn := func() error {
		recorder.Wait()
		var errs []error
		if st != nil {
			errs = append(errs, st.Close())
		}
		if counted, ok := c.(interface{ Stats() (int64, int64) }); ok {
			hits, misses := counted.Stats()
			logger.Debug("cache usage", zap.Int64("hits", hits), zap.Int64("misses", misses))
		}
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
		return errors.Join(errs...)
	}
	return svc, closeFn, nil
}

// Headlines extracts up to three search-ready headlines
func (s *Service) Headlines(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	return s.verifier.ExtractHeadlines(ctx, text), nil
}

// Search returns result URLs for a query
func (s *Service) Search(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyInput
	}
	if s.searcher == nil {
		return []string{}, nil
	}
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return []string{}, nil
	}
	return search.URLs(results), nil
}

// ExtractArticles extracts the first MaxURLsPerRequest URLs; failures are
// skipped
func (s *Service) ExtractArticles(ctx context.Context, urls []string) ([]model.ReferenceArticle, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyInput
	}
	if len(urls) > MaxURLsPerRequest {
		urls = urls[:MaxURLsPerRequest]
	}
	out := []model.ReferenceArticle{}
	if s.articles == nil {
		return out, nil
	}
	for _, u := range urls {
		if a, ok := s.articles.Extract(ctx, u); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Research runs the search flow for headlines and records it for userID
func (s *Service) Research(ctx context.Context, userID, original string, headlines []string, verifyEach bool) (model.ResearchReport, error) {
	if len(headlines) == 0 {
		return model.ResearchReport{}, ErrEmptyInput
	}
	if s.researcher == nil {
		return model.ResearchReport{
			OriginalText: original,
			Headlines:    headlines,
			Results:      []model.HeadlineResult{},
			GeneratedAt:  s.now().UTC(),
		}, nil
	}
	report := s.researcher.Research(ctx, original, headlines, verifyEach)
	s.recorder.Search(ctx, userID, report)
	return report, nil
}

// VerifyAuthenticity compares original against references. Articles in a
// supported language other than English are verified in English and the
// findings translated back. Successful analyses are cached per model,
// article and reference set.
func (s *Service) VerifyAuthenticity(ctx context.Context, userID, original string, references []model.ReferenceArticle) (model.VerificationResult, error) {
	if strings.TrimSpace(original) == "" {
		return model.VerificationResult{}, ErrEmptyInput
	}

	key := s.verifyKey(original, references)
	if res, ok := cache.Load[model.VerificationResult](s.cache, key); ok {
		s.logger.Debug("verification served from cache")
		s.recorder.Verification(ctx, userID, original, res, string(verify.OutcomeOK), s.model)
		return res, nil
	}

	a := s.analyze(ctx, original, references)
	if a.Outcome == verify.OutcomeOK {
		if err := cache.Store(s.cache, key, a.Result, s.cacheTTL); err != nil {
			s.logger.Debug("verification not cached", zap.Error(err))
		}
	}
	s.recorder.Verification(ctx, userID, original, a.Result, string(a.Outcome), a.Model)
	return a.Result, nil
}

func (s *Service) analyze(ctx context.Context, original string, references []model.ReferenceArticle) verify.Analysis {
	code := s.languages.Detect(original)
	english := s.languages.ToEnglish(ctx, original, code)
	a := s.verifier.Analyze(ctx, english, references)
	a.Result = s.languages.TranslateResult(ctx, a.Result, code)
	return a
}

func (s *Service) verifyKey(original string, references []model.ReferenceArticle) string {
	parts := []string{s.model, original}
	for _, r := range references {
		if r.HasContent() {
			parts = append(parts, r.Content)
		}
	}
	return cache.Key(cache.NamespaceVerify, parts...)
}

// History returns the caller's recent activity; empty when no store is
// configured
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.HistoryEntry, error) {
	st := s.recorder.Store()
	if st == nil || userID == "" {
		return []store.HistoryEntry{}, nil
	}
	return st.History(ctx, userID, limit)
}

// Verifications returns the caller's stored verification records; empty
// when no store is configured
func (s *Service) Verifications(ctx context.Context, userID string, limit int) ([]store.VerificationRecord, error) {
	st := s.recorder.Store()
	if st == nil || userID == "" {
		return []store.VerificationRecord{}, nil
	}
	return st.Verifications(ctx, userID, limit)
}
