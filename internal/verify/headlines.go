package verify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/extract"
	"github.com/ppiankov/newsguard/internal/normalize"
	"github.com/ppiankov/newsguard/internal/rawjson"
)

// HeadlineFallback picks headlines locally when the model cannot
type HeadlineFallback interface {
	Headlines(text string, n int) []string
}

func defaultHeadlineFallback() HeadlineFallback {
	return extract.NewHeadlineExtractor()
}

// ExtractHeadlines returns up to three search-ready headlines for text.
// The model is asked first; when it gives nothing usable the local
// sentence heuristic is used so the search flow can still proceed.
func (v *Verifier) ExtractHeadlines(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	raw, ok := v.invoke(ctx, HeadlineSystemPrompt, BuildHeadlinePrompt(text))
	if ok {
		ext := rawjson.Extract(raw)
		if ext.Outcome == rawjson.Found {
			headlines, diags := normalize.Headlines(ext.Value)
			v.logDiagnostics("headlines", diags)
			if len(headlines) > 0 {
				return headlines
			}
		}
		v.logger.Warn("headline extraction returned nothing usable",
			zap.String("extraction", ext.Outcome.String()))
	}

	headlines := v.headlines.Headlines(text, normalize.MaxHeadlines)
	v.logger.Info("using local headline heuristic", zap.Int("headlines", len(headlines)))
	if headlines == nil {
		return []string{}
	}
	return headlines
}
