package lang

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/newsguard/internal/rawjson"
)

// maxChunk keeps each request under the endpoint's query length limit
const maxChunk = 1800

// Translator translates text between two language codes
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// GoogleTranslator uses the public translate_a/single endpoint (client=gtx)
type GoogleTranslator struct {
	baseURL string
	client  *http.Client
}

// NewGoogleTranslator creates a translator. transport may be nil.
func NewGoogleTranslator(baseURL string, timeout time.Duration, transport http.RoundTripper) *GoogleTranslator {
	return &GoogleTranslator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Translate implements Translator. Long inputs are split on whitespace and
// translated piecewise.
func (g *GoogleTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" || from == to {
		return text, nil
	}

	var out strings.Builder
	for i, chunk := range chunks(text, maxChunk) {
		translated, err := g.translateChunk(ctx, chunk, from, to)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(translated)
	}
	return out.String(), nil
}

func (g *GoogleTranslator) translateChunk(ctx context.Context, text, from, to string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", from)
	params.Set("tl", to)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return parseGTX(body)
}

// parseGTX reads the nested-array response: [[["translated","source",...],...],...]
func parseGTX(body []byte) (string, error) {
	v, err := rawjson.Decode(body)
	if err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	top, ok := v.Items()
	if !ok || len(top) == 0 {
		return "", fmt.Errorf("parse response: unexpected shape")
	}
	segments, ok := top[0].Items()
	if !ok {
		return "", fmt.Errorf("parse response: unexpected shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.Items()
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].Str(); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("parse response: empty translation")
	}
	return b.String(), nil
}

// chunks splits text into pieces of at most max bytes, preferring
// whitespace boundaries
func chunks(text string, max int) []string {
	var out []string
	for len(text) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if idx := strings.LastIndexAny(text[:cut], " \n\t"); idx > max/2 {
			cut = idx
		}
		out = append(out, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
