package model

// ImageDetection is the verdict on whether an image is AI-generated
type ImageDetection struct {
	IsAIGenerated     bool       `json:"is_ai_generated"`
	Confidence        int        `json:"confidence"` // 0-100
	Status            string     `json:"status"`     // AI-generated, Real, Unknown
	Reasons           []string   `json:"reasons"`    // At most 3
	ArtifactsDetected bool       `json:"artifacts_detected"`
	DetectionMethod   string     `json:"detection_method"`
	RawScore          *float64   `json:"raw_score,omitempty"`
	Note              string     `json:"note,omitempty"`
	Artifacts         []Artifact `json:"artifacts"`
}

// Artifact is a single visual or metadata hint
type Artifact struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"` // High, Medium, Analyzing, N/A
}

const (
	StatusAIGenerated = "AI-generated"
	StatusReal        = "Real"
	StatusUnknown     = "Unknown"
	MaxImageReasons   = 3
)
