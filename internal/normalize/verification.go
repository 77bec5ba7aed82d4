package normalize

import (
	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/rawjson"
)

// Verification builds a canonical VerificationResult from a parsed model
// response. Each field is handled on its own; a bad field never affects
// its neighbours.
func Verification(c rawjson.Value) (model.VerificationResult, Diagnostics) {
	rec := &recorder{}
	out := model.DefaultVerificationResult()

	if !c.IsObject() {
		rec.wrongType("$", c)
		return out, rec.diags
	}

	out.AuthenticityScore = rec.intField("authenticity_score", c.Get("authenticity_score"), 0, model.MaxAuthenticity, 0)
	out.KeyFindings = rec.listField("key_findings", c.Get("key_findings"), model.MaxKeyFindings)
	out.Differences = rec.listField("differences", c.Get("differences"), model.MaxDifferences)
	out.SupportingEvidence = evidence(rec, c.Get("supporting_evidence"))
	out.ScoreBreakdown = breakdown(rec, c.Get("score_breakdown"))
	out.ClaimsAnalysis = claims(rec, c.Get("claims_analysis"))
	out.BiasDetection = bias(rec, c.Get("bias_detection"))
	out.EmotionalManipulation = emotional(rec, c.Get("emotional_manipulation"))
	out.SensationalTone = sensational(rec, c.Get("sensational_tone"))

	return out, rec.diags
}

func evidence(rec *recorder, v rawjson.Value) []model.SupportingEvidence {
	const field = "supporting_evidence"
	items := rec.objectList(field, v, model.MaxEvidence)
	out := make([]model.SupportingEvidence, 0, len(items))
	for i, item := range items {
		quote := rec.textField(index(field, i, "quote"), item.Get("quote"), "")
		source := rec.textField(index(field, i, "source"), item.Get("source"), model.UnknownSource)
		out = append(out, model.SupportingEvidence{Quote: quote, Source: source})
	}
	return out
}

// breakdown clamps each sub-score independently of the others and of the
// overall authenticity score.
func breakdown(rec *recorder, v rawjson.Value) model.ScoreBreakdown {
	const field = "score_breakdown"
	var out model.ScoreBreakdown
	if !v.IsObject() {
		if v.Present() && !v.IsNull() {
			rec.wrongType(field, v)
		} else {
			rec.absent(field, v)
		}
		return out
	}
	out.FactualAccuracy = rec.intField(path(field, "factual_accuracy"), v.Get("factual_accuracy"), 0, model.MaxFactualAccuracy, 0)
	out.SourceConsistency = rec.intField(path(field, "source_consistency"), v.Get("source_consistency"), 0, model.MaxSourceConsistency, 0)
	out.DetailAccuracy = rec.intField(path(field, "detail_accuracy"), v.Get("detail_accuracy"), 0, model.MaxDetailAccuracy, 0)
	out.ContextAccuracy = rec.intField(path(field, "context_accuracy"), v.Get("context_accuracy"), 0, model.MaxContextAccuracy, 0)
	return out
}

func claims(rec *recorder, v rawjson.Value) []model.ClaimAnalysis {
	const field = "claims_analysis"
	items := rec.objectList(field, v, model.MaxClaims)
	out := make([]model.ClaimAnalysis, 0, len(items))
	for i, item := range items {
		claim := rec.textField(index(field, i, "claim"), item.Get("claim"), "")
		class := rec.textField(index(field, i, "classification"), item.Get("classification"), string(model.ClassUnverified))
		explanation := rec.textField(index(field, i, "explanation"), item.Get("explanation"), "")
		corrected := rec.textField(index(field, i, "corrected_statement"), item.Get("corrected_statement"), "")
		confidence := rec.intField(index(field, i, "confidence"), item.Get("confidence"), 0, model.MaxConfidence, model.DefaultClaimConfidence)
		if !model.Classification(class).Known() {
			rec.note(index(field, i, "classification"), reasonUnknownLabel)
		}

		out = append(out, model.ClaimAnalysis{
			Claim:              claim,
			Classification:     model.Classification(class),
			Explanation:        explanation,
			CorrectedStatement: corrected,
			Confidence:         confidence,
		})
	}
	return out
}

func bias(rec *recorder, v rawjson.Value) model.BiasDetection {
	const field = "bias_detection"
	out := model.DefaultVerificationResult().BiasDetection
	if !section(rec, field, v) {
		return out
	}
	out.Detected = rec.boolField(path(field, "detected"), v.Get("detected"), false)
	out.Type = rec.textField(path(field, "type"), v.Get("type"), model.BiasTypeNone)
	out.Indicators = rec.listField(path(field, "indicators"), v.Get("indicators"), model.MaxSignalIndicators)
	return out
}

func emotional(rec *recorder, v rawjson.Value) model.EmotionalManipulation {
	const field = "emotional_manipulation"
	out := model.DefaultVerificationResult().EmotionalManipulation
	if !section(rec, field, v) {
		return out
	}
	out.Detected = rec.boolField(path(field, "detected"), v.Get("detected"), false)
	out.Tactics = rec.listField(path(field, "tactics"), v.Get("tactics"), model.MaxSignalIndicators)
	out.Examples = rec.listField(path(field, "examples"), v.Get("examples"), model.MaxSignalIndicators)
	return out
}

func sensational(rec *recorder, v rawjson.Value) model.SensationalTone {
	const field = "sensational_tone"
	out := model.DefaultVerificationResult().SensationalTone
	if !section(rec, field, v) {
		return out
	}
	out.Detected = rec.boolField(path(field, "detected"), v.Get("detected"), false)
	out.Score = rec.intField(path(field, "score"), v.Get("score"), 0, model.MaxSensationalScore, 0)
	out.Indicators = rec.listField(path(field, "indicators"), v.Get("indicators"), model.MaxSignalIndicators)
	return out
}

// section reports whether v is an object worth descending into
func section(rec *recorder, field string, v rawjson.Value) bool {
	if v.IsObject() {
		return true
	}
	if v.Present() && !v.IsNull() {
		rec.wrongType(field, v)
	} else {
		rec.absent(field, v)
	}
	return false
}
