package store

import (
	"time"

	"github.com/ppiankov/newsguard/internal/model"
)

// History action types
const (
	ActionArticleVerified = "article_verified"
	ActionSearchPerformed = "search_performed"
	ActionTextVerified    = "text_verified"
	ActionMemeVerified    = "meme_verified"
	ActionImageDetected   = "image_detected"
)

// VerificationRecord is one stored authenticity verification
type VerificationRecord struct {
	ID                 uint64                     `gorm:"primaryKey;autoIncrement"`
	UserID             string                     `gorm:"size:128;index;not null"`
	OriginalText       string                     `gorm:"type:text;not null"`
	AuthenticityScore  int                        `gorm:"not null"`
	KeyFindings        []string                   `gorm:"serializer:json;type:text"`
	Differences        []string                   `gorm:"serializer:json;type:text"`
	SupportingEvidence []model.SupportingEvidence `gorm:"serializer:json;type:text"`
	ScoreBreakdown     model.ScoreBreakdown       `gorm:"serializer:json;type:text"`
	Outcome            string                     `gorm:"size:32"`
	Model              string                     `gorm:"size:128"`
	CreatedAt          time.Time
}

// SearchRecord is one run of the search flow
type SearchRecord struct {
	ID        uint64              `gorm:"primaryKey;autoIncrement"`
	UserID    string              `gorm:"size:128;index;not null"`
	QueryText string              `gorm:"type:text;not null"`
	Headlines []string            `gorm:"serializer:json;type:text"`
	Results   map[string][]string `gorm:"serializer:json;type:text"` // headline -> article URLs
	CreatedAt time.Time
}

// ImageRecord is one AI-image detection
type ImageRecord struct {
	ID            uint64           `gorm:"primaryKey;autoIncrement"`
	UserID        string           `gorm:"size:128;index;not null"`
	Filename      string           `gorm:"size:256"`
	IsAIGenerated bool             `gorm:"not null"`
	Confidence    int              `gorm:"not null"`
	Status        string           `gorm:"size:32"`
	Method        string           `gorm:"size:64"`
	Reasons       []string         `gorm:"serializer:json;type:text"`
	Artifacts     []model.Artifact `gorm:"serializer:json;type:text"`
	CreatedAt     time.Time
}

// HistoryEntry is the per-user activity log
type HistoryEntry struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"size:128;index;not null" json:"user_id"`
	ActionType string    `gorm:"size:32;not null" json:"action_type"`
	Details    string    `gorm:"type:text" json:"action_details"`
	Title      string    `gorm:"size:256" json:"title"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides
func (VerificationRecord) TableName() string { return "verification_results" }
func (SearchRecord) TableName() string       { return "search_queries" }
func (ImageRecord) TableName() string        { return "image_detections" }
func (HistoryEntry) TableName() string       { return "user_history" }
