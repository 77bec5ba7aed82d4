package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
)

const writeTimeout = 5 * time.Second

// Recorder performs store writes in the background. Failures are logged
// and never reach the caller. A Recorder with a nil Store records nothing.
type Recorder struct {
	store  *Store
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder; s may be nil
func NewRecorder(s *Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: s, logger: logger}
}

// Enabled reports whether writes go anywhere
func (r *Recorder) Enabled() bool {
	return r != nil && r.store != nil
}

// Store returns the underlying store, nil when disabled
func (r *Recorder) Store() *Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Wait blocks until pending writes finish
func (r *Recorder) Wait() {
	if r != nil {
		r.wg.Wait()
	}
}

func (r *Recorder) do(ctx context.Context, what, userID string, write func(ctx context.Context) error) {
	if !r.Enabled() || userID == "" {
		return
	}
	// The write outlives the request that triggered it
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()

		if err := write(ctx); err != nil && !errors.Is(err, ErrNoUser) {
			r.logger.Warn("failed to record activity",
				zap.String("record", what),
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}()
}

// Verification records an authenticity verification
func (r *Recorder) Verification(ctx context.Context, userID, original string, res model.VerificationResult, outcome, modelName string) {
	r.do(ctx, ActionArticleVerified, userID, func(ctx context.Context) error {
		return r.store.RecordVerification(ctx, userID, original, res, outcome, modelName)
	})
}

// Search records a search flow run
func (r *Recorder) Search(ctx context.Context, userID string, report model.ResearchReport) {
	r.do(ctx, ActionSearchPerformed, userID, func(ctx context.Context) error {
		return r.store.RecordSearch(ctx, userID, report)
	})
}

// Image records an image detection
func (r *Recorder) Image(ctx context.Context, userID, filename string, d model.ImageDetection) {
	r.do(ctx, ActionImageDetected, userID, func(ctx context.Context) error {
		return r.store.RecordImage(ctx, userID, filename, d)
	})
}

// TextCheck records a text or meme credibility check
func (r *Recorder) TextCheck(ctx context.Context, userID, action, text string, res model.CredibilityResult) {
	r.do(ctx, action, userID, func(ctx context.Context) error {
		return r.store.RecordTextCheck(ctx, userID, action, text, res)
	})
}
