package imagecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/newsguard/internal/model"
)

// aiThreshold is the genai score above which an image is called AI-generated
const aiThreshold = 0.5

// SightEngine calls the genai model of the SightEngine check API
type SightEngine struct {
	baseURL string
	user    string
	secret  string
	client  *http.Client
}

// NewSightEngine creates a client. transport may be nil.
func NewSightEngine(baseURL, user, secret string, timeout time.Duration, transport http.RoundTripper) *SightEngine {
	return &SightEngine{
		baseURL: baseURL,
		user:    user,
		secret:  secret,
		client:  &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Configured reports whether real credentials are set. Unrendered template
// placeholders such as "{{SIGHTENGINE_USER}}" count as missing.
func (s *SightEngine) Configured() bool {
	if s == nil || s.user == "" || s.secret == "" {
		return false
	}
	return !strings.HasPrefix(s.user, "{{") && !strings.HasPrefix(s.secret, "{{")
}

type sightEngineResponse struct {
	Status string `json:"status"`
	Type   struct {
		AIGenerated float64 `json:"ai_generated"`
	} `json:"type"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Score uploads the image and returns the ai_generated score in [0, 1]
func (s *SightEngine) Score(ctx context.Context, image []byte) (float64, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{"models": "genai", "api_user": s.user, "api_secret": s.secret} {
		if err := w.WriteField(k, v); err != nil {
			return 0, fmt.Errorf("build request: %w", err)
		}
	}
	part, err := w.CreateFormFile("media", "image.jpg")
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, &body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sightengine: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return 0, fmt.Errorf("sightengine: invalid credentials")
	case http.StatusPaymentRequired:
		return 0, fmt.Errorf("sightengine: insufficient credits")
	case http.StatusTooManyRequests:
		return 0, fmt.Errorf("sightengine: rate limit exceeded")
	default:
		return 0, fmt.Errorf("sightengine: unexpected status: %d", resp.StatusCode)
	}

	var parsed sightEngineResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("sightengine: parse response: %w", err)
	}
	if parsed.Status != "success" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return 0, fmt.Errorf("sightengine: %s", msg)
	}

	score := parsed.Type.AIGenerated
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("sightengine: score out of range: %v", score)
	}
	return score, nil
}

// FromScore turns a genai score into a detection with tiered reasons
func FromScore(score float64) model.ImageDetection {
	isAI := score > aiThreshold
	// epsilon keeps 0.95 from truncating to 94
	confidence := int((1-score)*100 + 1e-9)
	if isAI {
		confidence = int(score*100 + 1e-9)
	}

	var reasons []string
	switch {
	case isAI && score > 0.9:
		reasons = []string{"High confidence AI-generated content detected", "Image shows strong artificial generation patterns"}
	case isAI && score > 0.7:
		reasons = []string{"AI-generated patterns detected in image", "Visual analysis indicates synthetic origin"}
	case isAI:
		reasons = []string{"Moderate AI-generation indicators found", "Some artificial patterns detected"}
	case score < 0.1:
		reasons = []string{"High confidence authentic photograph", "No AI-generation markers detected"}
	case score < 0.3:
		reasons = []string{"Natural image characteristics detected", "Image appears to be genuine"}
	default:
		reasons = []string{"No significant AI-generation markers found", "Image likely authentic"}
	}
	if isAI {
		reasons = append(reasons, "Analysis powered by SightEngine AI detection")
	}

	raw := float64(int(score*10000+0.5)) / 10000
	status := model.StatusReal
	if isAI {
		status = model.StatusAIGenerated
	}
	return model.ImageDetection{
		IsAIGenerated:     isAI,
		Confidence:        confidence,
		Status:            status,
		Reasons:           reasons,
		ArtifactsDetected: isAI,
		DetectionMethod:   MethodSightEngine,
		RawScore:          &raw,
	}
}
