package model

import "time"

// ArticleReport is the full check of one article URL: the article itself,
// the headlines searched, what was found and the verdict
type ArticleReport struct {
	URL          string             `json:"url"`
	Article      ReferenceArticle   `json:"article"`
	Headlines    []string           `json:"headlines"`
	References   []ReferenceArticle `json:"references"`
	Verification VerificationResult `json:"verification"`
	Outcome      string             `json:"outcome"`
	CheckedAt    time.Time          `json:"checked_at"`
}
