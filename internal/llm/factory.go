package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name disables the model and returns (nil, nil).
func NewProvider(ctx context.Context, config Config, logger *zap.Logger) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	var (
		p   Provider
		err error
	)
	switch provider {
	case "openai":
		p, err = wrap(NewOpenAIProvider(config, logger))

	case "anthropic", "claude":
		p, err = wrap(NewAnthropicProvider(config, logger))

	case "ollama":
		p, err = wrap(NewOllamaProvider(config, logger))

	case "gemini", "google":
		p, err = wrap(NewGeminiProvider(ctx, config, logger))

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
	return p, err
}

// wrap keeps a failed constructor from producing a non-nil interface
// holding a nil pointer.
func wrap[T Provider](p T, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model config sections to llm.Config
func ConfigFromModel(llmConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	return Config{
		Provider:    llmConfig.Provider,
		Model:       llmConfig.Model,
		APIKey:      llmConfig.APIKey,
		BaseURL:     llmConfig.BaseURL,
		Timeout:     llmConfig.Timeout,
		MaxTokens:   llmConfig.MaxTokens,
		Temperature: llmConfig.Temperature,
		HTTPProxy:   httpConfig.HTTPProxy,
		HTTPSProxy:  httpConfig.HTTPSProxy,
		NoProxy:     httpConfig.NoProxy,
	}
}
