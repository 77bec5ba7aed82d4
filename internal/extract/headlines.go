package extract

import (
	"sort"
	"strings"
	"unicode"
)

// maxHeadlineLen keeps fallback headlines usable as search queries
const maxHeadlineLen = 120

// Candidate is a sentence scored as a potential headline
type Candidate struct {
	Text      string
	Heuristic string // why it scored, e.g. "keyword:announced"
	Sentence  int    // index in the source text
	Score     int
}

// HeadlineExtractor picks newsworthy sentences without a language model.
// It looks for reporting verbs and attribution, numbers, and proper nouns,
// and prefers the lead of the article.
type HeadlineExtractor struct {
	keywords []string
}

// NewHeadlineExtractor creates a new headline extractor
func NewHeadlineExtractor() *HeadlineExtractor {
	return &HeadlineExtractor{
		keywords: []string{
			"according to", "announced", "said", "says", "reported", "confirmed",
			"claimed", "killed", "arrested", "died", "launched", "approved",
			"banned", "elected", "resigned", "government", "minister", "police",
			"court", "president", "election", "percent", "crore", "lakh",
			"सरकार", "मंत्री", "पुलिस", "कहा",
		},
	}
}

// Candidates scores every sentence of text
func (e *HeadlineExtractor) Candidates(text string) []Candidate {
	sentences := dedupe(SplitSentences(text))

	candidates := make([]Candidate, 0, len(sentences))
	for i, sentence := range sentences {
		c := Candidate{Text: sentence, Sentence: i}
		lower := strings.ToLower(sentence)

		for _, keyword := range e.keywords {
			if strings.Contains(lower, keyword) {
				c.Score += 2
				c.Heuristic = "keyword:" + keyword
				break // Only match once per sentence
			}
		}
		if strings.IndexFunc(sentence, unicode.IsDigit) >= 0 {
			c.Score++
		}
		if n := properNouns(sentence); n > 0 {
			c.Score += min(n, 3)
		}
		if i < 3 {
			c.Score++
		}
		if c.Heuristic == "" {
			c.Heuristic = "position"
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// Headlines returns up to n headline strings, best first, ties broken by
// position in the text.
func (e *HeadlineExtractor) Headlines(text string, n int) []string {
	candidates := e.Candidates(text)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	out := make([]string, 0, n)
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		out = append(out, asHeadline(c.Text))
	}

	// Very short inputs have no full sentences; use the text itself
	if len(out) == 0 {
		if t := strings.TrimSpace(text); t != "" && n > 0 {
			out = append(out, asHeadline(t))
		}
	}
	return out
}

func asHeadline(sentence string) string {
	sentence = strings.TrimRight(strings.TrimSpace(sentence), ".!?।॥ ")
	return Truncate(sentence, maxHeadlineLen)
}

// properNouns counts capitalised words after the first
func properNouns(sentence string) int {
	words := strings.Fields(sentence)
	count := 0
	for i, w := range words {
		if i == 0 {
			continue
		}
		r := []rune(w)
		if len(r) > 1 && unicode.IsUpper(r[0]) {
			count++
		}
	}
	return count
}
