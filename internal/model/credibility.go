package model

// CredibilityResult is the canonical output of the social-text pipeline
type CredibilityResult struct {
	CredibilityScore int         `json:"credibility_score"` // 0-100
	Verdict          string      `json:"verdict"`
	Claims           []TextClaim `json:"claims"`
	RedFlags         []string    `json:"red_flags"`
	Recommendations  []string    `json:"recommendations"`
	Summary          string      `json:"summary"`
	OriginalLanguage string      `json:"original_language"`
}

// Verdict labels suggested to the model
const (
	VerdictLikelyTrue        = "Likely True"
	VerdictNeedsVerification = "Needs Verification"
	VerdictLikelyFalse       = "Likely False"
	VerdictMisinformation    = "Misinformation"
)

const (
	DefaultCredibilityScore = 50
	MaxCredibilityScore     = 100
	MaxTextClaims           = 10
	MaxRedFlags             = 10
	MaxRecommendations      = 5
	DefaultAssessment       = "unverified"
	DefaultSummary          = "Analysis completed"
)

// DefaultCredibilityResult is the template the normalizer starts from
func DefaultCredibilityResult(lang string) CredibilityResult {
	return CredibilityResult{
		CredibilityScore: DefaultCredibilityScore,
		Verdict:          VerdictNeedsVerification,
		Claims:           []TextClaim{},
		RedFlags:         []string{},
		Recommendations:  []string{},
		Summary:          DefaultSummary,
		OriginalLanguage: lang,
	}
}

// FallbackCredibilityResult is returned when the model gave nothing usable
func FallbackCredibilityResult(lang string) CredibilityResult {
	r := DefaultCredibilityResult(lang)
	r.RedFlags = []string{"Unable to perform complete analysis"}
	r.Recommendations = []string{"Try verifying from official sources"}
	r.Summary = "Analysis could not be completed fully"
	return r
}

// TextVerification is a credibility result enriched with language info
type TextVerification struct {
	CredibilityResult
	DetectedLanguage string `json:"detected_language"`
	LanguageName     string `json:"language_name"`
}

// MemeVerification adds OCR details to a text verification
type MemeVerification struct {
	TextVerification
	ExtractedText string `json:"extracted_text"`
	OCREnabled    bool   `json:"ocr_enabled"`
	ContentType   string `json:"content_type"`
}

const ContentTypeMeme = "meme/quote_image"
