// Package ocr extracts text from meme and quote images with Tesseract.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
)

// ErrUnavailable is returned when OCR is disabled or Tesseract is missing
var ErrUnavailable = errors.New("OCR not available")

const defaultTimeout = 60 * time.Second

// Engine extracts text from an encoded image
type Engine interface {
	Available() bool
	Extract(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs the tesseract binary, feeding the image on stdin
type Tesseract struct {
	binary    string
	languages string
	timeout   time.Duration
	logger    *zap.Logger

	lookPath func(string) (string, error)
}

// NewTesseract creates an engine for binary with the "+"-joined language list
func NewTesseract(binary, languages string, logger *zap.Logger) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng+hin+mar"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{
		binary:    binary,
		languages: languages,
		timeout:   defaultTimeout,
		logger:    logger,
		lookPath:  exec.LookPath,
	}
}

// NewFromConfig returns nil when OCR is disabled
func NewFromConfig(cfg model.OCRConfig, logger *zap.Logger) *Tesseract {
	if !cfg.Enabled {
		return nil
	}
	return NewTesseract(cfg.Binary, cfg.Languages, logger)
}

// Available reports whether the binary can be found. Callers check it
// once at startup; Extract does not.
func (t *Tesseract) Available() bool {
	if t == nil {
		return false
	}
	_, err := t.lookPath(t.binary)
	return err == nil
}

// Extract binarizes the image and returns the recognized text, trimmed.
// Images that cannot be decoded are passed to Tesseract unchanged. A
// missing binary yields ErrUnavailable.
func (t *Tesseract) Extract(ctx context.Context, image []byte) (string, error) {
	if t == nil {
		return "", ErrUnavailable
	}
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	input, err := Binarize(image)
	if err != nil {
		t.logger.Debug("preprocessing skipped", zap.Error(err))
		input = image
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.languages)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	t.logger.Debug("ocr complete",
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
