package normalize

import (
	"fmt"
	"strings"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/rawjson"
)

// MaxHeadlines bounds the headline extraction output
const MaxHeadlines = 3

// Credibility builds a canonical CredibilityResult for text in language lang
func Credibility(c rawjson.Value, lang string) (model.CredibilityResult, Diagnostics) {
	rec := &recorder{}
	out := model.DefaultCredibilityResult(lang)

	if !c.IsObject() {
		rec.wrongType("$", c)
		return out, rec.diags
	}

	out.CredibilityScore = rec.intField("credibility_score", c.Get("credibility_score"), 0, model.MaxCredibilityScore, model.DefaultCredibilityScore)
	out.Verdict = rec.textField("verdict", c.Get("verdict"), model.VerdictNeedsVerification)
	out.RedFlags = rec.listField("red_flags", c.Get("red_flags"), model.MaxRedFlags)
	out.Recommendations = rec.listField("recommendations", c.Get("recommendations"), model.MaxRecommendations)
	out.Summary = rec.textField("summary", c.Get("summary"), model.DefaultSummary)

	const field = "claims"
	items := rec.objectList(field, c.Get(field), model.MaxTextClaims)
	out.Claims = make([]model.TextClaim, 0, len(items))
	for i, item := range items {
		claim := rec.textField(index(field, i, "claim"), item.Get("claim"), "")
		assessment := rec.textField(index(field, i, "assessment"), item.Get("assessment"), model.DefaultAssessment)
		explanation := rec.textField(index(field, i, "explanation"), item.Get("explanation"), "")
		out.Claims = append(out.Claims, model.TextClaim{Claim: claim, Assessment: assessment, Explanation: explanation})
	}

	return out, rec.diags
}

// Headlines reads {"news_headline": [...]} into at most MaxHeadlines
// trimmed, non-empty strings.
func Headlines(c rawjson.Value) ([]string, Diagnostics) {
	rec := &recorder{}
	const field = "news_headline"

	raw := rec.listField(field, c.Get(field), len(listOrNil(c.Get(field))))
	out := make([]string, 0, MaxHeadlines)
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			rec.note(fmt.Sprintf("%s[%d]", field, i), "empty")
			continue
		}
		if len(out) == MaxHeadlines {
			rec.note(field, reasonTruncated)
			break
		}
		out = append(out, h)
	}
	return out, rec.diags
}

func listOrNil(v rawjson.Value) []rawjson.Value {
	items, _ := v.Items()
	return items
}
