package verify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/normalize"
	"github.com/ppiankov/newsguard/internal/rawjson"
)

// CredibilityAnalysis is a credibility result plus how it was produced
type CredibilityAnalysis struct {
	Result      model.CredibilityResult
	Outcome     Outcome
	Err         error
	Diagnostics normalize.Diagnostics
}

// AnalyzeCredibility judges a standalone social-media text written (or
// translated) in English. lang is the language of the original submission
// and is echoed in the result.
func (v *Verifier) AnalyzeCredibility(ctx context.Context, text, lang string) CredibilityAnalysis {
	if strings.TrimSpace(text) == "" {
		return CredibilityAnalysis{
			Result:  model.FallbackCredibilityResult(lang),
			Outcome: OutcomeNoEvidence,
			Err:     ErrNoEvidence,
		}
	}

	raw, ok := v.invoke(ctx, CredibilitySystemPrompt, BuildCredibilityPrompt(text))
	if !ok {
		v.logger.Warn("credibility check failed", zap.String("outcome", string(OutcomeModelUnavailable)))
		return CredibilityAnalysis{
			Result:  model.FallbackCredibilityResult(lang),
			Outcome: OutcomeModelUnavailable,
			Err:     ErrModelUnavailable,
		}
	}

	ext := rawjson.Extract(raw)
	if ext.Outcome != rawjson.Found {
		err := errJSONNotFound
		if ext.Outcome == rawjson.ParseError {
			err = errJSONParse
		}
		v.logger.Warn("credibility check failed",
			zap.String("outcome", string(OutcomeMalformedOutput)),
			zap.Error(err))
		return CredibilityAnalysis{
			Result:  model.FallbackCredibilityResult(lang),
			Outcome: OutcomeMalformedOutput,
			Err:     err,
		}
	}

	result, diags := normalize.Credibility(ext.Value, lang)
	v.logDiagnostics("credibility", diags)
	v.logger.Info("credibility check completed",
		zap.Int("credibility_score", result.CredibilityScore),
		zap.String("verdict", result.Verdict))

	return CredibilityAnalysis{
		Result:      result,
		Outcome:     OutcomeOK,
		Diagnostics: diags,
	}
}
