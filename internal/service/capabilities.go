package service

import (
	"context"
	"time"

	"github.com/ppiankov/newsguard/internal/lang"
	"github.com/ppiankov/newsguard/internal/llm"
	"github.com/ppiankov/newsguard/internal/ocr"
)

// modelCheckTimeout bounds the startup reachability check of the provider
const modelCheckTimeout = 5 * time.Second

// Features records which optional collaborators work. It is resolved once
// when the service is built; requests never recheck.
type Features struct {
	TranslationAvailable bool
	OCRAvailable         bool
	ModelAvailable       bool
}

// resolveFeatures checks each optional collaborator once. A model that does
// not answer stays configured so later calls can still reach it; it is
// only reported as unavailable.
func resolveFeatures(ctx context.Context, provider llm.Provider, languages *lang.Service, engine ocr.Engine) Features {
	f := Features{
		TranslationAvailable: languages.TranslationAvailable(),
		OCRAvailable:         engine != nil && engine.Available(),
	}
	if provider != nil {
		ctx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
		defer cancel()
		f.ModelAvailable = provider.IsAvailable(ctx)
	}
	return f
}

// Capabilities reports which optional features are active
type Capabilities struct {
	Model             string   `json:"model"` // empty when no model is configured
	ModelAvailable    bool     `json:"model_available"`
	Search            string   `json:"search"`
	Translation       bool     `json:"translation"`
	OCR               bool     `json:"ocr"`
	RemoteImageCheck  bool     `json:"remote_image_detection"`
	History           bool     `json:"history"`
	Languages         []string `json:"languages"`
	AcceptedImageExts []string `json:"accepted_image_types"`
}

// Capabilities describes the running configuration
func (s *Service) Capabilities() Capabilities {
	c := Capabilities{
		Model:             s.model,
		ModelAvailable:    s.features.ModelAvailable,
		Translation:       s.features.TranslationAvailable,
		OCR:               s.features.OCRAvailable,
		RemoteImageCheck:  s.images.RemoteConfigured(),
		History:           s.recorder.Enabled(),
		Languages:         lang.Codes(),
		AcceptedImageExts: []string{"png", "jpg", "jpeg", "gif", "webp"},
	}
	if s.searcher != nil {
		c.Search = s.searcher.Name()
	}
	return c
}
