package model

// ClaimAnalysis is the model's verdict on a single sentence of the article
type ClaimAnalysis struct {
	Claim              string         `json:"claim"`               // Exact sentence from the article
	Classification     Classification `json:"classification"`      // Expected one of the Classification constants
	Explanation        string         `json:"explanation"`         // Why this classification
	CorrectedStatement string         `json:"corrected_statement"` // Factual correction, if any
	Confidence         int            `json:"confidence"`          // 0-100
}

// Classification labels a claim. Values outside the constants below are
// passed through as-is; consumers must handle unknown labels.
type Classification string

const (
	ClassVerifiedTrue Classification = "verified_true" // Confirmed by trusted sources
	ClassMisleading   Classification = "misleading"    // Partially true, missing context
	ClassFalse        Classification = "false"         // Contradicted by trusted sources
	ClassUnverified   Classification = "unverified"    // Cannot be confirmed
)

// Known reports whether c is one of the documented classifications
func (c Classification) Known() bool {
	switch c {
	case ClassVerifiedTrue, ClassMisleading, ClassFalse, ClassUnverified:
		return true
	default:
		return false
	}
}

// TextClaim is a claim assessed by the lighter credibility pipeline
type TextClaim struct {
	Claim       string `json:"claim"`
	Assessment  string `json:"assessment"` // true|unverified|false|misleading
	Explanation string `json:"explanation"`
}
