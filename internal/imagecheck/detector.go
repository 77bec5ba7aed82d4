// Package imagecheck estimates whether an image was produced by a
// generative model. SightEngine is used when credentials are configured;
// otherwise a metadata heuristic runs locally.
package imagecheck

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/util"
)

// Detection methods
const (
	MethodSightEngine = "SightEngine AI"
	MethodLocal       = "Local Analysis (API unavailable)"
	MethodError       = "Error"
)

// aiSoftware are generator names found in EXIF Software or PNG text
var aiSoftware = []string{
	"stable diffusion", "midjourney", "dall-e", "dalle", "novelai",
	"automatic1111", "comfyui", "invokeai", "diffusers",
	"nai diffusion", "dreamstudio", "leonardo", "firefly",
	"bing image creator", "ideogram", "playground",
}

// aiDimensions are default output sizes of popular generators
var aiDimensions = map[[2]int]bool{
	{512, 512}: true, {768, 768}: true, {1024, 1024}: true, {1536, 1536}: true,
	{512, 768}: true, {768, 512}: true, {768, 1024}: true, {1024, 768}: true,
}

var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
}

// AllowedUpload reports whether filename has an accepted image extension
func AllowedUpload(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return allowedExtensions[ext]
}

// Detector runs AI-image detection
type Detector struct {
	remote *SightEngine
	logger *zap.Logger
}

// NewDetector creates a detector; remote may be nil
func NewDetector(remote *SightEngine, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{remote: remote, logger: logger}
}

// NewDetectorFromConfig wires SightEngine from the image config
func NewDetectorFromConfig(cfg model.ImageConfig, httpCfg model.HTTPConfig, logger *zap.Logger) *Detector {
	transport := util.NewTransport(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy)
	remote := NewSightEngine(cfg.SightEngineURL, cfg.SightEngineUser, cfg.SightEngineSecret, httpCfg.Timeout, transport)
	return NewDetector(remote, logger)
}

// RemoteConfigured reports whether SightEngine will be tried first
func (d *Detector) RemoteConfigured() bool {
	return d.remote.Configured()
}

// Detect never fails: problems are reported as an Unknown detection
func (d *Detector) Detect(ctx context.Context, data []byte) model.ImageDetection {
	if len(data) == 0 {
		return errorDetection(fmt.Errorf("empty image"))
	}

	meta, metaErr := inspect(data)

	if d.remote.Configured() {
		score, err := d.remote.Score(ctx, data)
		if err == nil {
			det := FromScore(score)
			det.Artifacts = artifacts(meta, metaErr)
			return det
		}
		d.logger.Warn("remote image detection failed, using local analysis", zap.Error(err))
	}

	if metaErr != nil {
		return errorDetection(metaErr)
	}
	det := localDetection(meta)
	det.Artifacts = artifacts(meta, nil)
	return det
}

func localDetection(meta metadata) model.ImageDetection {
	score := 50
	var reasons []string

	if !meta.HasEXIF {
		score += 15
		reasons = append(reasons, "No camera metadata found (common in AI images)")
	} else {
		if meta.Make != "" || meta.Model != "" {
			score -= 25
			reasons = append(reasons, strings.TrimSpace(fmt.Sprintf("Camera metadata found: %s %s", meta.Make, meta.Model)))
		}
		if meta.HasGPS {
			score -= 20
			reasons = append(reasons, "GPS location data present")
		}
		if containsAny(strings.ToLower(meta.Software), aiSoftware) {
			score += 40
			reasons = append(reasons, "AI generation software detected in metadata")
		}
	}

	if meta.Format == "png" {
		switch {
		case containsAny(meta.PNGText, aiSoftware):
			score += 40
			reasons = append(reasons, "AI parameters found in PNG metadata")
		case hasGenerationParams(meta.PNGText):
			score += 35
			reasons = append(reasons, "Generation prompt found in metadata")
		}
	}

	w, h := meta.Width, meta.Height
	switch {
	case aiDimensions[[2]int{w, h}]:
		score += 15
		reasons = append(reasons, fmt.Sprintf("Dimensions %dx%d match common AI output", w, h))
	case w%64 == 0 && h%64 == 0 && w >= 512:
		score += 10
		reasons = append(reasons, "Dimensions are multiples of 64 (diffusion model pattern)")
	}

	score = max(0, min(100, score))
	isAI := score >= 50
	if len(reasons) == 0 {
		reasons = []string{"Image analysis complete (local fallback method)"}
	}
	if len(reasons) > model.MaxImageReasons {
		reasons = reasons[:model.MaxImageReasons]
	}

	confidence, status := 100-score, model.StatusReal
	if isAI {
		confidence, status = score, model.StatusAIGenerated
	}
	return model.ImageDetection{
		IsAIGenerated:     isAI,
		Confidence:        confidence,
		Status:            status,
		Reasons:           reasons,
		ArtifactsDetected: isAI,
		DetectionMethod:   MethodLocal,
		Note:              "For best results, configure SightEngine API credentials",
	}
}

func artifacts(meta metadata, err error) []model.Artifact {
	if err != nil {
		return []model.Artifact{{Type: "Analysis Error", Description: err.Error(), Confidence: "N/A"}}
	}

	var out []model.Artifact
	w, h := meta.Width, meta.Height
	if w == h && w >= 512 {
		out = append(out, model.Artifact{
			Type:        "Square Dimensions",
			Description: fmt.Sprintf("Image is %dx%d - common AI generator output size", w, h),
			Confidence:  "Medium",
		})
	}
	if w%64 == 0 && h%64 == 0 {
		out = append(out, model.Artifact{
			Type:        "Diffusion Model Dimensions",
			Description: "Dimensions are multiples of 64 (required by diffusion models)",
			Confidence:  "Medium",
		})
	}
	if !meta.HasEXIF {
		out = append(out, model.Artifact{
			Type:        "Missing EXIF Data",
			Description: "No camera metadata found - common in AI-generated images",
			Confidence:  "Medium",
		})
	}
	if meta.Format == "png" && hasGenerationParams(meta.PNGText) {
		out = append(out, model.Artifact{
			Type:        "AI Generation Parameters",
			Description: "Found AI generation prompt/parameters in metadata",
			Confidence:  "High",
		})
	}
	// Placeholder entry; no texture analysis runs, the confidence stays "Analyzing"
	out = append(out, model.Artifact{
		Type:        "Texture Consistency",
		Description: "Analyzing texture patterns for AI artifacts",
		Confidence:  "Analyzing",
	})
	return out
}

func errorDetection(err error) model.ImageDetection {
	return model.ImageDetection{
		Confidence:      50,
		Status:          model.StatusUnknown,
		Reasons:         []string{"Analysis error: " + err.Error()},
		DetectionMethod: MethodError,
		Note:            "Could not complete analysis",
		Artifacts:       []model.Artifact{{Type: "Analysis Error", Description: err.Error(), Confidence: "N/A"}},
	}
}

func hasGenerationParams(text string) bool {
	return strings.Contains(text, "parameters") || strings.Contains(text, "prompt")
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
