package llm

import (
	"context"
	"time"
)

// Provider defines the interface for chat-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model used when a request does not name one
	Model() string

	// Complete sends one system message and one user message and returns the
	// raw assistant text. Implementations return an error for transport
	// failures and for empty or malformed response envelopes.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ChatRequest is a two-message chat completion
type ChatRequest struct {
	System string
	User   string

	// Model overrides the provider default when set
	Model string

	// MaxTokens limits the response length (0 = config default)
	MaxTokens int

	// Temperature (ConfigTemperature = config default)
	Temperature float64
}

// ConfigTemperature asks the provider to use its configured temperature
const ConfigTemperature = -1

// ChatResponse contains the model's raw output
type ChatResponse struct {
	// Text is the assistant message, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     60,
		MaxTokens:   2000,
		Temperature: 0.2,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

// resolve fills request defaults from the provider config
func (c Config) resolve(req ChatRequest, defaultModel string) (model string, maxTokens int, temperature float64) {
	model = req.Model
	if model == "" {
		model = c.Model
	}
	if model == "" {
		model = defaultModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 2000
	}

	temperature = req.Temperature
	if temperature < 0 {
		temperature = c.Temperature
	}
	return model, maxTokens, temperature
}
