// Package store persists verification activity per caller with gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ppiankov/newsguard/internal/model"
)

// ErrNoUser is returned when a write has no caller identity
var ErrNoUser = errors.New("no user id")

const (
	defaultHistoryLimit = 50
	// MaxHistoryLimit bounds a single history or verification listing
	MaxHistoryLimit = 200
)

// Store wraps a gorm connection
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open connects using the configured driver and migrates the schema
func Open(cfg model.StoreConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(mysqlDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	return New(db, logger)
}

// New wraps an existing connection and migrates the schema
func New(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&VerificationRecord{}, &SearchRecord{}, &ImageRecord{}, &HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordVerification stores an authenticity verification and its history entry
func (s *Store) RecordVerification(ctx context.Context, userID, original string, r model.VerificationResult, outcome, modelName string) error {
	if userID == "" {
		return ErrNoUser
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := VerificationRecord{
			UserID:             userID,
			OriginalText:       original,
			AuthenticityScore:  r.AuthenticityScore,
			KeyFindings:        r.KeyFindings,
			Differences:        r.Differences,
			SupportingEvidence: r.SupportingEvidence,
			ScoreBreakdown:     r.ScoreBreakdown,
			Outcome:            outcome,
			Model:              modelName,
			CreatedAt:          s.now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&HistoryEntry{
			UserID:     userID,
			ActionType: ActionArticleVerified,
			Details:    fmt.Sprintf("Article verified with score: %d%%", r.AuthenticityScore),
			Title:      fmt.Sprintf("Verification #%d", rec.ID),
			CreatedAt:  s.now(),
		}).Error
	})
}

// RecordSearch stores a search flow run and its history entry
func (s *Store) RecordSearch(ctx context.Context, userID string, report model.ResearchReport) error {
	if userID == "" {
		return ErrNoUser
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := SearchRecord{
			UserID:    userID,
			QueryText: report.OriginalText,
			Headlines: report.Headlines,
			Results:   report.URLsByHeadline(),
			CreatedAt: s.now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&HistoryEntry{
			UserID:     userID,
			ActionType: ActionSearchPerformed,
			Details:    fmt.Sprintf("Search with %d headlines", len(report.Headlines)),
			Title:      fmt.Sprintf("Search #%d", rec.ID),
			CreatedAt:  s.now(),
		}).Error
	})
}

// RecordImage stores an image detection and its history entry
func (s *Store) RecordImage(ctx context.Context, userID, filename string, d model.ImageDetection) error {
	if userID == "" {
		return ErrNoUser
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := ImageRecord{
			UserID:        userID,
			Filename:      filename,
			IsAIGenerated: d.IsAIGenerated,
			Confidence:    d.Confidence,
			Status:        d.Status,
			Method:        d.DetectionMethod,
			Reasons:       d.Reasons,
			Artifacts:     d.Artifacts,
			CreatedAt:     s.now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&HistoryEntry{
			UserID:     userID,
			ActionType: ActionImageDetected,
			Details:    fmt.Sprintf("Image detection: %s (confidence: %d%%)", d.Status, d.Confidence),
			Title:      "Image: " + filename,
			CreatedAt:  s.now(),
		}).Error
	})
}

// RecordTextCheck stores a history entry for a text or meme credibility
// check. action is ActionTextVerified or ActionMemeVerified.
func (s *Store) RecordTextCheck(ctx context.Context, userID, action, text string, r model.CredibilityResult) error {
	if userID == "" {
		return ErrNoUser
	}
	prefix := "Text"
	if action == ActionMemeVerified {
		prefix = "Meme"
	}
	return s.db.WithContext(ctx).Create(&HistoryEntry{
		UserID:     userID,
		ActionType: action,
		Details:    fmt.Sprintf("%s verification: %s (score: %d%%)", prefix, r.Verdict, r.CredibilityScore),
		Title:      fmt.Sprintf("%s: %s...", prefix, runePrefix(text, 50)),
		CreatedAt:  s.now(),
	}).Error
}

// History returns the newest entries for userID first
func (s *Store) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	limit = historyLimit(limit)
	var entries []HistoryEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Verifications returns the stored verifications for userID, newest first
func (s *Store) Verifications(ctx context.Context, userID string, limit int) ([]VerificationRecord, error) {
	limit = historyLimit(limit)
	var recs []VerificationRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func historyLimit(n int) int {
	switch {
	case n <= 0:
		return defaultHistoryLimit
	case n > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return n
	}
}

func runePrefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// mysqlDSN adds parseTime and utf8mb4 unless the DSN sets them
func mysqlDSN(dsn string) string {
	dsn = ensureParam(dsn, "parseTime", "true")
	if !strings.Contains(dsn, "charset=") {
		dsn = ensureParam(dsn, "charset", "utf8mb4")
		dsn = ensureParam(dsn, "collation", "utf8mb4_unicode_ci")
	}
	return dsn
}

func ensureParam(dsn, key, val string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + val
}
