package lang

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/util"
)

// Service detects languages and translates with pass-through on failure.
// A nil translator or disabled translation makes every call a no-op.
type Service struct {
	translator Translator
	enabled    bool
	logger     *zap.Logger
}

// NewService creates a language service
func NewService(translator Translator, enabled bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		translator: translator,
		enabled:    enabled && translator != nil,
		logger:     logger,
	}
}

// NewServiceFromConfig builds the service from the language config
func NewServiceFromConfig(cfg model.LanguageConfig, httpCfg model.HTTPConfig, logger *zap.Logger) *Service {
	var t Translator
	if cfg.TranslationEnabled && cfg.TranslateURL != "" {
		t = NewGoogleTranslator(cfg.TranslateURL, httpCfg.Timeout, util.NewTransport(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy))
	}
	return NewService(t, cfg.TranslationEnabled, logger)
}

// TranslationAvailable reports whether translation calls do anything
func (s *Service) TranslationAvailable() bool {
	return s.enabled
}

// Detect returns the language code of text. With translation disabled
// everything is treated as English.
func (s *Service) Detect(text string) string {
	if !s.enabled {
		return English
	}
	return Detect(text)
}

// ToEnglish translates text from lang to English. On failure the input is
// returned unchanged.
func (s *Service) ToEnglish(ctx context.Context, text, lang string) string {
	return s.translate(ctx, text, lang, English)
}

// FromEnglish translates English text to lang. On failure the input is
// returned unchanged.
func (s *Service) FromEnglish(ctx context.Context, text, lang string) string {
	return s.translate(ctx, text, English, lang)
}

// Translate converts text between any two supported languages, pivoting
// through English when neither side is English.
func (s *Service) Translate(ctx context.Context, text, from, to string) string {
	if from != English && to != English {
		return s.FromEnglish(ctx, s.ToEnglish(ctx, text, from), to)
	}
	return s.translate(ctx, text, from, to)
}

func (s *Service) translate(ctx context.Context, text, from, to string) string {
	if !s.enabled || from == to || strings.TrimSpace(text) == "" {
		return text
	}
	if !Supported(from) || !Supported(to) {
		return text
	}
	out, err := s.translator.Translate(ctx, text, from, to)
	if err != nil {
		s.logger.Warn("translation failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return text
	}
	return out
}

func (s *Service) fromEnglishAll(ctx context.Context, items []string, lang string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = s.FromEnglish(ctx, item, lang)
	}
	return out
}

// TranslateResult translates the human-readable fields of a verification
// result into lang. Scores, labels and list lengths are unchanged.
func (s *Service) TranslateResult(ctx context.Context, r model.VerificationResult, lang string) model.VerificationResult {
	if !s.enabled || lang == English {
		return r
	}

	r.KeyFindings = s.fromEnglishAll(ctx, r.KeyFindings, lang)
	r.Differences = s.fromEnglishAll(ctx, r.Differences, lang)

	claims := make([]model.ClaimAnalysis, len(r.ClaimsAnalysis))
	for i, c := range r.ClaimsAnalysis {
		c.Explanation = s.FromEnglish(ctx, c.Explanation, lang)
		c.CorrectedStatement = s.FromEnglish(ctx, c.CorrectedStatement, lang)
		claims[i] = c
	}
	r.ClaimsAnalysis = claims

	r.BiasDetection.Indicators = s.fromEnglishAll(ctx, r.BiasDetection.Indicators, lang)
	r.EmotionalManipulation.Examples = s.fromEnglishAll(ctx, r.EmotionalManipulation.Examples, lang)
	r.SensationalTone.Indicators = s.fromEnglishAll(ctx, r.SensationalTone.Indicators, lang)
	return r
}

// TranslateCredibility translates the summary, recommendations and claim
// explanations of a credibility result into lang.
func (s *Service) TranslateCredibility(ctx context.Context, r model.CredibilityResult, lang string) model.CredibilityResult {
	if !s.enabled || lang == English {
		return r
	}

	r.Summary = s.FromEnglish(ctx, r.Summary, lang)
	r.Recommendations = s.fromEnglishAll(ctx, r.Recommendations, lang)

	claims := make([]model.TextClaim, len(r.Claims))
	for i, c := range r.Claims {
		c.Explanation = s.FromEnglish(ctx, c.Explanation, lang)
		claims[i] = c
	}
	r.Claims = claims
	return r
}
