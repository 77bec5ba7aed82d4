package model

// SupportingEvidence is a quote from a reference that backs a finding
type SupportingEvidence struct {
	Quote  string `json:"quote"`
	Source string `json:"source"` // Defaults to "Unknown"
}

// ReferenceArticle is a corroborating article retrieved from the web
type ReferenceArticle struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content"`               // Main text, may be empty when extraction failed
	Description string `json:"description,omitempty"` // First 300 characters of content
	Source      string `json:"source,omitempty"`      // Domain without www. prefix
	ImageURL    string `json:"image_url,omitempty"`   // og:image when present
}

// HasContent reports whether the article carries usable reference text
func (a ReferenceArticle) HasContent() bool {
	for _, r := range a.Content {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

// AnalysisRequest is the input of a single authenticity verification.
// It is built per call and never persisted.
type AnalysisRequest struct {
	OriginalText string             `json:"original_news"`
	References   []ReferenceArticle `json:"verified_articles"`
}
