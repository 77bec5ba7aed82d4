package verify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/newsguard/internal/model"
)

// fakeModel replays canned responses and records every prompt it receives
type fakeModel struct {
	mu       sync.Mutex
	response string
	ok       bool
	calls    []string
}

func (f *fakeModel) Invoke(_ context.Context, system, user string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, user)
	return f.response, f.ok
}

func (f *fakeModel) Model() string { return "fake/test" }

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func replying(response string) *fakeModel {
	return &fakeModel{response: response, ok: true}
}

var someReferences = []model.ReferenceArticle{
	{URL: "https://a.example/1", Content: "Officials confirmed the bridge reopened on Monday."},
	{URL: "https://b.example/2", Content: "  "},
	{URL: "https://c.example/3", Content: "The bridge reopened after repairs, the ministry said."},
}

func TestAnalyze_NoReferences(t *testing.T) {
	m := replying(`{"authenticity_score": 90}`)
	v := NewVerifier(m)

	for _, refs := range [][]model.ReferenceArticle{nil, {}, {{URL: "x", Content: " \n\t"}}} {
		a := v.Analyze(context.Background(), "some article", refs)

		assert.Equal(t, OutcomeNoEvidence, a.Outcome)
		assert.ErrorIs(t, a.Err, ErrNoEvidence)
		assert.Equal(t, 0, a.Result.AuthenticityScore)
		assert.Len(t, a.Result.KeyFindings, 1)
		assert.NotEmpty(t, a.Result.Differences)
	}
	assert.Equal(t, 0, m.callCount(), "model must not be invoked without references")
}

func TestAnalyze_OK(t *testing.T) {
	m := replying(`Sure! Here is the analysis: {"authenticity_score": 999, "key_findings": ["a","b","c","d"]} Hope this helps.`)
	v := NewVerifier(m)

	a := v.Analyze(context.Background(), "The bridge reopened.", someReferences)

	require.Equal(t, OutcomeOK, a.Outcome)
	require.NoError(t, a.Err)
	assert.Equal(t, 100, a.Result.AuthenticityScore)
	assert.Equal(t, []string{"a", "b", "c"}, a.Result.KeyFindings)
	assert.Equal(t, 2, a.References)
	assert.Equal(t, "fake/test", a.Model)
	assert.NotEmpty(t, a.Diagnostics)

	require.Equal(t, 1, m.callCount())
	prompt := m.calls[0]
	assert.Contains(t, prompt, "The bridge reopened.")
	assert.Contains(t, prompt, "Officials confirmed the bridge reopened on Monday.")
	assert.Contains(t, prompt, "the ministry said")
}

func TestAnalyze_CapsPromptReferences(t *testing.T) {
	m := replying(`{"authenticity_score": 50}`)
	v := NewVerifier(m)

	refs := make([]model.ReferenceArticle, 5)
	for i := range refs {
		refs[i] = model.ReferenceArticle{Content: "reference number " + string(rune('A'+i))}
	}

	a := v.Analyze(context.Background(), "article", refs)
	require.Equal(t, OutcomeOK, a.Outcome)

	prompt := m.calls[0]
	assert.Contains(t, prompt, "reference number C")
	assert.NotContains(t, prompt, "reference number D")
	assert.Equal(t, MaxPromptReferences-1, strings.Count(prompt, referenceSeparator))
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		model   Model
		outcome Outcome
		err     error
		finding string
	}{
		{"nil model", nil, OutcomeModelUnavailable, ErrModelUnavailable, reasonNoOutput},
		{"model failed", &fakeModel{ok: false}, OutcomeModelUnavailable, ErrModelUnavailable, reasonNoOutput},
		{"no json", replying("I cannot help with that."), OutcomeMalformedOutput, ErrMalformedOutput, reasonJSONNotFound},
		{"broken json", replying(`{"authenticity_score": 80,, }`), OutcomeMalformedOutput, ErrMalformedOutput, reasonJSONParse},
		{"reversed braces", replying(`} nothing {`), OutcomeMalformedOutput, ErrMalformedOutput, reasonJSONParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(tt.model)

			var a Analysis
			require.NotPanics(t, func() {
				a = v.Analyze(context.Background(), "article", someReferences)
			})

			assert.Equal(t, tt.outcome, a.Outcome)
			assert.True(t, errors.Is(a.Err, tt.err), "got %v", a.Err)
			assert.Equal(t, 0, a.Result.AuthenticityScore)
			assert.Equal(t, []string{tt.finding}, a.Result.KeyFindings)
			assert.NotEmpty(t, a.Result.Differences)
			assert.Equal(t, model.SystemSource, a.Result.SupportingEvidence[0].Source)
		})
	}
}

func TestAnalyze_CanceledContext(t *testing.T) {
	m := replying(`{"authenticity_score": 70}`)
	v := NewVerifier(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := v.Analyze(ctx, "article", someReferences)
	assert.Equal(t, OutcomeModelUnavailable, a.Outcome)
	assert.Equal(t, 0, m.callCount())
}

func TestAnalyze_Latency(t *testing.T) {
	v := NewVerifier(replying(`{"authenticity_score": 70}`))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	v.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	a := v.Analyze(context.Background(), "article", someReferences)
	assert.Equal(t, time.Second, a.Latency)
}

func TestVerifyAuthenticity_RangesHold(t *testing.T) {
	outputs := []string{
		`{"authenticity_score": -40, "score_breakdown": {"factual_accuracy": -5, "source_consistency": 1000}}`,
		`{"authenticity_score": "87.9", "sensational_tone": {"detected": "yes", "score": 1e9}}`,
		`{"claims_analysis": [{"confidence": "high"}, 7, {"confidence": 250}]}`,
		`[1, 2, 3] {"authenticity_score": null}`,
		`{"score_breakdown": "none", "bias_detection": []}`,
	}

	for _, out := range outputs {
		r := NewVerifier(replying(out)).VerifyAuthenticity(context.Background(), "article", someReferences)

		assert.GreaterOrEqual(t, r.AuthenticityScore, 0, out)
		assert.LessOrEqual(t, r.AuthenticityScore, model.MaxAuthenticity, out)
		assert.LessOrEqual(t, r.ScoreBreakdown.FactualAccuracy, model.MaxFactualAccuracy, out)
		assert.GreaterOrEqual(t, r.ScoreBreakdown.FactualAccuracy, 0, out)
		assert.LessOrEqual(t, r.ScoreBreakdown.SourceConsistency, model.MaxSourceConsistency, out)
		assert.LessOrEqual(t, r.SensationalTone.Score, model.MaxSensationalScore, out)
		for _, c := range r.ClaimsAnalysis {
			assert.GreaterOrEqual(t, c.Confidence, 0, out)
			assert.LessOrEqual(t, c.Confidence, model.MaxConfidence, out)
		}
		assert.NotNil(t, r.KeyFindings, out)
		assert.NotNil(t, r.Differences, out)
	}
}

func TestAnalyze_LogsDiagnosticsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	v := NewVerifier(replying(`{"authenticity_score": 999}`), WithLogger(zap.New(core)))

	v.Analyze(context.Background(), "article", someReferences)

	defaulted := logs.FilterMessage("field defaulted").All()
	require.NotEmpty(t, defaulted)
	assert.Equal(t, "authenticity", defaulted[0].ContextMap()["pipeline"])
	assert.Equal(t, 1, logs.FilterMessage("verification completed").Len())
}
