package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/imagecheck"
	"github.com/ppiankov/newsguard/internal/lang"
	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/store"
)

// VerifyText checks the credibility of a social-media text in any
// supported language. Results come back in the language of the input.
func (s *Service) VerifyText(ctx context.Context, userID, text string) (model.TextVerification, error) {
	if strings.TrimSpace(text) == "" {
		return model.TextVerification{}, ErrEmptyInput
	}
	res := s.verifyText(ctx, text)
	s.recorder.TextCheck(ctx, userID, store.ActionTextVerified, text, res.CredibilityResult)
	return res, nil
}

func (s *Service) verifyText(ctx context.Context, text string) model.TextVerification {
	code := s.languages.Detect(text)
	english := s.languages.ToEnglish(ctx, text, code)

	a := s.verifier.AnalyzeCredibility(ctx, english, code)
	result := s.languages.TranslateCredibility(ctx, a.Result, code)

	return model.TextVerification{
		CredibilityResult: result,
		DetectedLanguage:  code,
		LanguageName:      lang.Name(code),
	}
}

// VerifyMeme reads the text of a meme or quote image with OCR and checks
// its credibility
func (s *Service) VerifyMeme(ctx context.Context, userID, filename string, image []byte) (model.MemeVerification, error) {
	if s.ocr == nil || !s.features.OCRAvailable {
		return model.MemeVerification{}, ErrOCRUnavailable
	}
	if len(image) == 0 {
		return model.MemeVerification{}, ErrEmptyInput
	}
	if !imagecheck.AllowedUpload(filename) {
		return model.MemeVerification{}, ErrUnsupportedImage
	}

	text, err := s.ocr.Extract(ctx, image)
	if err != nil {
		return model.MemeVerification{}, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	if utf8.RuneCountInString(text) < minMemeText {
		s.logger.Info("meme rejected", zap.Int("chars", utf8.RuneCountInString(text)))
		return model.MemeVerification{ExtractedText: text, OCREnabled: true}, ErrNoReadableText
	}

	res := model.MemeVerification{
		TextVerification: s.verifyText(ctx, text),
		ExtractedText:    text,
		OCREnabled:       true,
		ContentType:      model.ContentTypeMeme,
	}
	s.recorder.TextCheck(ctx, userID, store.ActionMemeVerified, filename, res.CredibilityResult)
	return res, nil
}

// DetectImage estimates whether an uploaded image is AI-generated
func (s *Service) DetectImage(ctx context.Context, userID, filename string, image []byte) (model.ImageDetection, error) {
	if len(image) == 0 {
		return model.ImageDetection{}, ErrEmptyInput
	}
	if !imagecheck.AllowedUpload(filename) {
		return model.ImageDetection{}, ErrUnsupportedImage
	}
	det := s.images.Detect(ctx, image)
	s.recorder.Image(ctx, userID, filename, det)
	return det, nil
}

// LanguageInfo describes a detected language
type LanguageInfo struct {
	Code                string `json:"language_code"`
	Name                string `json:"language_name"`
	Supported           bool   `json:"supported"`
	MultilingualEnabled bool   `json:"multilingual_enabled"`
}

// DetectLanguage reports the language of text
func (s *Service) DetectLanguage(text string) (LanguageInfo, error) {
	if strings.TrimSpace(text) == "" {
		return LanguageInfo{}, ErrEmptyInput
	}
	code := s.languages.Detect(text)
	return LanguageInfo{
		Code:                code,
		Name:                lang.Name(code),
		Supported:           lang.Supported(code),
		MultilingualEnabled: s.features.TranslationAvailable,
	}, nil
}

// Translation is the result of a translate request
type Translation struct {
	Text    string `json:"translated_text"`
	Source  string `json:"source_lang"`
	Target  string `json:"target_lang"`
	Message string `json:"message,omitempty"`
}

// Translate converts text to target. An empty source is detected.
func (s *Service) Translate(ctx context.Context, text, source, target string) (Translation, error) {
	if strings.TrimSpace(text) == "" {
		return Translation{}, ErrEmptyInput
	}
	if target == "" {
		target = lang.English
	}
	if norm := lang.Normalize(target); norm != "" {
		target = norm
	}
	if !s.features.TranslationAvailable {
		return Translation{Text: text, Source: lang.English, Target: target, Message: "Translation not available"}, nil
	}

	if norm := lang.Normalize(source); norm != "" {
		source = norm
	} else {
		source = s.languages.Detect(text)
	}
	return Translation{
		Text:   s.languages.Translate(ctx, text, source, target),
		Source: source,
		Target: target,
	}, nil
}
