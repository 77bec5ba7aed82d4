// Package verify turns untrusted language-model output into canonical
// verification results. Every exported verification call returns a
// well-formed result; failures are folded into the result itself.
package verify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/normalize"
	"github.com/ppiankov/newsguard/internal/rawjson"
)

// Model is the chat-completion collaborator. Invoke returns ("", false)
// on any failure and never an error.
type Model interface {
	Invoke(ctx context.Context, system, user string) (string, bool)
	Model() string
}

// Verifier runs the authenticity, credibility and headline pipelines.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	model     Model
	logger    *zap.Logger
	headlines HeadlineFallback
	now       func() time.Time
}

// Option configures a Verifier
type Option func(*Verifier)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithHeadlineFallback replaces the local headline heuristic
func WithHeadlineFallback(f HeadlineFallback) Option {
	return func(v *Verifier) {
		if f != nil {
			v.headlines = f
		}
	}
}

// NewVerifier creates a Verifier. A nil model makes every model-backed
// call take its fallback path.
func NewVerifier(m Model, opts ...Option) *Verifier {
	v := &Verifier{
		model:     m,
		logger:    zap.NewNop(),
		headlines: defaultHeadlineFallback(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Analysis is a verification result plus how it was produced
type Analysis struct {
	Result      model.VerificationResult
	Outcome     Outcome
	Err         error // nil when Outcome is OutcomeOK
	Diagnostics normalize.Diagnostics
	Model       string
	Latency     time.Duration
	References  int // references with content that were considered
}

// VerifyAuthenticity compares original against the reference articles.
// It never fails; see Analyze for the outcome details.
func (v *Verifier) VerifyAuthenticity(ctx context.Context, original string, references []model.ReferenceArticle) model.VerificationResult {
	return v.Analyze(ctx, original, references).Result
}

// Analyze is VerifyAuthenticity with the outcome, diagnostics, model name
// and latency attached.
func (v *Verifier) Analyze(ctx context.Context, original string, references []model.ReferenceArticle) (a Analysis) {
	start := v.now()

	texts := make([]string, 0, len(references))
	for _, ref := range references {
		if ref.HasContent() {
			texts = append(texts, ref.Content)
		}
	}

	a = Analysis{References: len(texts), Model: v.modelName()}
	defer func() {
		a.Latency = v.now().Sub(start)
	}()

	if len(texts) == 0 {
		a.Result = model.NoReferenceResult()
		a.Outcome = OutcomeNoEvidence
		a.Err = ErrNoEvidence
		v.logger.Info("verification skipped", zap.String("outcome", string(a.Outcome)))
		return a
	}

	raw, ok := v.invoke(ctx, AnalysisSystemPrompt, BuildAnalysisPrompt(original, texts))
	if !ok {
		a.Result = model.ErrorResult(reasonNoOutput)
		a.Outcome = OutcomeModelUnavailable
		a.Err = ErrModelUnavailable
		v.logger.Warn("verification failed", zap.String("outcome", string(a.Outcome)))
		return a
	}

	ext := rawjson.Extract(raw)
	switch ext.Outcome {
	case rawjson.NotFound:
		a.Result = model.ErrorResult(reasonJSONNotFound)
		a.Outcome = OutcomeMalformedOutput
		a.Err = errJSONNotFound
	case rawjson.ParseError:
		a.Result = model.ErrorResult(reasonJSONParse)
		a.Outcome = OutcomeMalformedOutput
		a.Err = fmt.Errorf("%w: %v", errJSONParse, ext.Err)
	default:
		a.Result, a.Diagnostics = normalize.Verification(ext.Value)
		a.Outcome = OutcomeOK
	}

	v.logDiagnostics("authenticity", a.Diagnostics)
	if a.Err != nil {
		v.logger.Warn("verification failed",
			zap.String("outcome", string(a.Outcome)),
			zap.Error(a.Err),
			zap.Int("response_bytes", len(raw)))
	} else {
		v.logger.Info("verification completed",
			zap.Int("authenticity_score", a.Result.AuthenticityScore),
			zap.Int("references", a.References),
			zap.Int("defaulted_fields", len(a.Diagnostics)))
	}
	return a
}

func (v *Verifier) invoke(ctx context.Context, system, user string) (string, bool) {
	if v.model == nil {
		return "", false
	}
	if err := ctx.Err(); err != nil {
		v.logger.Warn("model call skipped", zap.Error(err))
		return "", false
	}
	return v.model.Invoke(ctx, system, user)
}

func (v *Verifier) modelName() string {
	if v.model == nil {
		return ""
	}
	return v.model.Model()
}

func (v *Verifier) logDiagnostics(pipeline string, diags normalize.Diagnostics) {
	if len(diags) == 0 || !v.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, d := range diags {
		v.logger.Debug("field defaulted",
			zap.String("pipeline", pipeline),
			zap.String("field", d.Field),
			zap.String("reason", d.Reason))
	}
}
