package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Invoker wraps a Provider so that callers never see an error: every
// failure turns into ("", false) plus a log line.
type Invoker struct {
	provider Provider
	logger   *zap.Logger
}

// NewInvoker returns an invoker. A nil provider is allowed and always
// yields no output.
func NewInvoker(provider Provider, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{provider: provider, logger: logger}
}

// Model names the model requests go to, or "" when no provider is set
func (i *Invoker) Model() string {
	if i == nil || i.provider == nil {
		return ""
	}
	return i.provider.Name() + "/" + i.provider.Model()
}

// Invoke sends the system and user messages and returns the raw text.
// ok is false on transport error, timeout, cancellation, or empty output.
func (i *Invoker) Invoke(ctx context.Context, system, user string) (string, bool) {
	if i == nil || i.provider == nil {
		return "", false
	}

	start := time.Now()
	resp, err := i.provider.Complete(ctx, ChatRequest{
		System:      system,
		User:        user,
		Temperature: ConfigTemperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		i.logger.Warn("model call failed",
			zap.String("provider", i.provider.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", false
	}
	if resp == nil || resp.Text == "" {
		i.logger.Warn("model returned empty output",
			zap.String("provider", i.provider.Name()),
			zap.Duration("elapsed", elapsed))
		return "", false
	}

	i.logger.Debug("model call completed",
		zap.String("provider", i.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
		zap.Duration("elapsed", elapsed))
	return resp.Text, true
}
