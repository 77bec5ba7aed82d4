package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Sentence length bounds in bytes
const (
	minSentenceLen = 30
	maxSentenceLen = 500
)

// VisibleText extracts text nodes from HTML, skipping scripts, styles and
// page chrome.
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "aside", "form", "svg":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// SplitSentences splits text into sentences (simple heuristic). Latin
// terminators and the Devanagari danda both end a sentence when followed
// by whitespace. Sentences outside the length bounds are dropped.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= minSentenceLen && len(sentence) <= maxSentenceLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		current.WriteRune(r)
		i += size

		if isTerminator(r) {
			next, _ := utf8.DecodeRuneInString(text[i:])
			if i >= len(text) || unicode.IsSpace(next) {
				flush()
			}
		}
	}

	if current.Len() > 0 {
		flush()
	}

	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '॥':
		return true
	}
	return false
}

// Truncate shortens s to at most max bytes on a word boundary and appends
// an ellipsis when anything was cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}

func dedupe(items []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, item)
		}
	}

	return unique
}
