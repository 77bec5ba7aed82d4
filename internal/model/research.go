package model

import "time"

// HeadlineResult groups the articles found for one headline
type HeadlineResult struct {
	Headline     string              `json:"headline"`
	Articles     []ReferenceArticle  `json:"articles"`
	Verification *VerificationResult `json:"verification,omitempty"`
}

// ResearchReport is the outcome of the search flow for one article
type ResearchReport struct {
	OriginalText string           `json:"original_news"`
	Headlines    []string         `json:"headlines"`
	Results      []HeadlineResult `json:"search_results"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// URLsByHeadline flattens the report for persistence
func (r ResearchReport) URLsByHeadline() map[string][]string {
	out := make(map[string][]string, len(r.Results))
	for _, res := range r.Results {
		urls := make([]string, 0, len(res.Articles))
		for _, a := range res.Articles {
			urls = append(urls, a.URL)
		}
		out[res.Headline] = urls
	}
	return out
}
