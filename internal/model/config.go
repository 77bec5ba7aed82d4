package model

import "time"

// Config is the complete NewsGuard configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Language    LanguageConfig    `yaml:"language" mapstructure:"language"`
	OCR         OCRConfig         `yaml:"ocr" mapstructure:"ocr"`
	Image       ImageConfig       `yaml:"image" mapstructure:"image"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// LLMConfig selects and tunes the chat-completion provider
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, gemini
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// SearchConfig configures web search
type SearchConfig struct {
	GoogleAPIKey      string  `yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	GoogleCSEID       string  `yaml:"google_cse_id,omitempty" mapstructure:"google_cse_id"`
	FeedURL           string  `yaml:"feed_url" mapstructure:"feed_url"` // %s is replaced by the escaped query
	ResultsPerQuery   int     `yaml:"results_per_query" mapstructure:"results_per_query"`
	ArticlesPerQuery  int     `yaml:"articles_per_query" mapstructure:"articles_per_query"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// HTTPConfig configures outbound fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	DomainRate    float64       `yaml:"domain_rate" mapstructure:"domain_rate"` // requests per second per host
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the layered cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	RedisAddr string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"` // replaces the disk layer when set

	MemoryItems   int `yaml:"memory_items" mapstructure:"memory_items"`
	MaxEntryBytes int `yaml:"max_entry_bytes" mapstructure:"max_entry_bytes"`
}

// StoreConfig configures result persistence
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver  string `yaml:"driver" mapstructure:"driver"` // sqlite, mysql
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
}

// LanguageConfig configures detection and translation
type LanguageConfig struct {
	TranslationEnabled bool   `yaml:"translation_enabled" mapstructure:"translation_enabled"`
	TranslateURL       string `yaml:"translate_url" mapstructure:"translate_url"`
}

// OCRConfig configures the Tesseract adapter
type OCRConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Binary    string `yaml:"binary" mapstructure:"binary"`
	Languages string `yaml:"languages" mapstructure:"languages"`
}

// ImageConfig configures AI-image detection
type ImageConfig struct {
	SightEngineUser   string `yaml:"sightengine_user,omitempty" mapstructure:"sightengine_user"`
	SightEngineSecret string `yaml:"sightengine_secret,omitempty" mapstructure:"sightengine_secret"`
	SightEngineURL    string `yaml:"sightengine_url" mapstructure:"sightengine_url"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers          int `yaml:"workers" mapstructure:"workers"`                     // batch workers
	HeadlineParallel int `yaml:"headline_parallel" mapstructure:"headline_parallel"` // per search flow
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3.2",
			Timeout:     60,
			MaxTokens:   2000,
			Temperature: 0.2,
		},
		Search: SearchConfig{
			FeedURL:           "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
			ResultsPerQuery:   10,
			ArticlesPerQuery:  3,
			RequestsPerSecond: 2,
		},
		HTTP: HTTPConfig{
			Timeout:       20 * time.Second,
			UserAgent:     "NewsGuard/0.1 (+https://github.com/ppiankov/newsguard)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
			DomainRate:    1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.newsguard/cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,

			MemoryItems:   10_000,
			MaxEntryBytes: 1 << 20,
		},
		Store: StoreConfig{
			Enabled: false,
			Driver:  "sqlite",
			DSN:     "newsguard.db",
		},
		Server: ServerConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: 10 << 20,
			ReadTimeout:    30 * time.Second,
		},
		Language: LanguageConfig{
			TranslationEnabled: true,
			TranslateURL:       "https://translate.googleapis.com/translate_a/single",
		},
		OCR: OCRConfig{
			Enabled:   true,
			Binary:    "tesseract",
			Languages: "eng+hin+mar",
		},
		Image: ImageConfig{
			SightEngineURL: "https://api.sightengine.com/1.0/check.json",
		},
		Concurrency: ConcurrencyConfig{
			Workers:          4,
			HeadlineParallel: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
