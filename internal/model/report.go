package model

// VerificationResult is the canonical authenticity judgment.
// Every field is always present and every number is within its range,
// whatever the language model returned.
type VerificationResult struct {
	AuthenticityScore     int                   `json:"authenticity_score"` // 0-100
	KeyFindings           []string              `json:"key_findings"`       // At most 3
	Differences           []string              `json:"differences"`        // At most 3
	SupportingEvidence    []SupportingEvidence  `json:"supporting_evidence"`
	ScoreBreakdown        ScoreBreakdown        `json:"score_breakdown"`
	ClaimsAnalysis        []ClaimAnalysis       `json:"claims_analysis"` // At most 10
	BiasDetection         BiasDetection         `json:"bias_detection"`
	EmotionalManipulation EmotionalManipulation `json:"emotional_manipulation"`
	SensationalTone       SensationalTone       `json:"sensational_tone"`
}

// ScoreBreakdown holds independently clamped sub-scores.
// They are not required to add up to AuthenticityScore.
type ScoreBreakdown struct {
	FactualAccuracy   int `json:"factual_accuracy"`   // 0-40
	SourceConsistency int `json:"source_consistency"` // 0-30
	DetailAccuracy    int `json:"detail_accuracy"`    // 0-20
	ContextAccuracy   int `json:"context_accuracy"`   // 0-10
}

type BiasDetection struct {
	Detected   bool     `json:"detected"`
	Type       string   `json:"type"` // political|commercial|sensational|none
	Indicators []string `json:"indicators"`
}

type EmotionalManipulation struct {
	Detected bool     `json:"detected"`
	Tactics  []string `json:"tactics"`
	Examples []string `json:"examples"`
}

type SensationalTone struct {
	Detected   bool     `json:"detected"`
	Score      int      `json:"score"` // 0-100
	Indicators []string `json:"indicators"`
}

// Limits and ranges of the canonical result
const (
	MaxKeyFindings      = 3
	MaxDifferences      = 3
	MaxEvidence         = 3
	MaxClaims           = 10
	MaxSignalIndicators = 5

	MaxAuthenticity      = 100
	MaxFactualAccuracy   = 40
	MaxSourceConsistency = 30
	MaxDetailAccuracy    = 20
	MaxContextAccuracy   = 10
	MaxConfidence        = 100
	MaxSensationalScore  = 100

	DefaultClaimConfidence = 50
	UnknownSource          = "Unknown"
	SystemSource           = "System"
	BiasTypeNone           = "none"
)

// DefaultVerificationResult returns the all-zero template the normalizer
// starts from. Slices are empty, never nil, so they encode as [].
func DefaultVerificationResult() VerificationResult {
	return VerificationResult{
		KeyFindings:        []string{},
		Differences:        []string{},
		SupportingEvidence: []SupportingEvidence{},
		ClaimsAnalysis:     []ClaimAnalysis{},
		BiasDetection: BiasDetection{
			Type:       BiasTypeNone,
			Indicators: []string{},
		},
		EmotionalManipulation: EmotionalManipulation{
			Tactics:  []string{},
			Examples: []string{},
		},
		SensationalTone: SensationalTone{
			Indicators: []string{},
		},
	}
}

// NoReferenceResult is returned when there is nothing to compare against
func NoReferenceResult() VerificationResult {
	r := DefaultVerificationResult()
	r.KeyFindings = []string{"No verified sources available for comparison"}
	r.Differences = []string{"Unable to verify due to lack of reference content"}
	r.SupportingEvidence = []SupportingEvidence{{Quote: "No verified sources found", Source: SystemSource}}
	return r
}

// ErrorResult carries a failure reason in the canonical shape
func ErrorResult(reason string) VerificationResult {
	r := DefaultVerificationResult()
	r.KeyFindings = []string{reason}
	r.Differences = []string{"Analysis failed"}
	r.SupportingEvidence = []SupportingEvidence{{Quote: "Error processing request", Source: SystemSource}}
	return r
}
