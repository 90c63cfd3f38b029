package scoutqa

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/scoutqa/scoutqa/internal/analytics"
	"github.com/scoutqa/scoutqa/internal/crawler"
	"github.com/scoutqa/scoutqa/pkg/llm"
)

// Config holds all Engine configuration, validated with struct tags
// the way the teacher's refyne.Config is assembled from functional
// options over a defaulted struct.
type Config struct {
	MaxPages       int           `validate:"gte=1,lte=500"`
	MaxConcurrency int           `validate:"gte=1,lte=16"`
	ScanTimeout    time.Duration `validate:"gte=0"`

	// LLMProvider, LLMModel, LLMAPIKey configure the external
	// remediation-hint generator (spec §4.5). Leaving LLMAPIKey empty
	// triggers env-based auto-detection (spec §6); leaving the
	// provider undetectable falls back to templates.
	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	// AnalyticsPath is the file the FileSink appends scan-complete
	// records to (spec §4.10). Empty disables analytics.
	AnalyticsPath string

	// CachePath is the prompt cache's backing JSON file (spec §4.5/§4.6).
	CachePath string `validate:"required"`
}

// DefaultConfig returns sensible defaults, mirroring the teacher's
// DefaultConfig (pkg/scoutqa's predecessor) in shape if not in content.
func DefaultConfig() Config {
	return Config{
		MaxPages:       crawler.DefaultMaxPages,
		MaxConcurrency: crawler.DefaultMaxConcurrency,
		CachePath:      "scoutqa-cache.json",
	}
}

// Option configures an Engine.
type Option func(*Config)

// WithMaxPages sets the crawler's page budget (spec §4.1, default 20).
func WithMaxPages(n int) Option {
	return func(c *Config) { c.MaxPages = n }
}

// WithMaxConcurrency sets the crawler's concurrent page-load budget
// (spec §4.1, default 3).
func WithMaxConcurrency(n int) Option {
	return func(c *Config) { c.MaxConcurrency = n }
}

// WithScanTimeout overrides the whole-scan timeout (spec §4.4, default
// 5 minutes). Zero keeps the default.
func WithScanTimeout(d time.Duration) Option {
	return func(c *Config) { c.ScanTimeout = d }
}

// WithLLMProvider forces a specific external generator provider
// ("anthropic" or "openai") instead of env-based auto-detection.
func WithLLMProvider(provider string) Option {
	return func(c *Config) { c.LLMProvider = provider }
}

// WithLLMModel overrides the provider's default model.
func WithLLMModel(model string) Option {
	return func(c *Config) { c.LLMModel = model }
}

// WithLLMAPIKey sets the external generator's API key explicitly,
// bypassing environment-variable auto-detection.
func WithLLMAPIKey(key string) Option {
	return func(c *Config) { c.LLMAPIKey = key }
}

// WithAnalyticsPath sets the analytics sink's output file.
func WithAnalyticsPath(path string) Option {
	return func(c *Config) { c.AnalyticsPath = path }
}

// WithCachePath sets the prompt cache's backing file.
func WithCachePath(path string) Option {
	return func(c *Config) { c.CachePath = path }
}

var validate = validator.New()

// buildProvider resolves the configured LLM provider, falling back to
// environment-variable auto-detection (spec §6) when the caller didn't
// pin one explicitly. A nil, nil return means no credential was found
// and the prompt generator will use templates for every defect.
func buildProvider(cfg Config) (llm.Provider, error) {
	providerName := cfg.LLMProvider
	apiKey := cfg.LLMAPIKey

	if providerName == "" {
		detected, key := llm.DetectProvider()
		if detected == "" {
			return nil, nil
		}
		providerName = detected
		if apiKey == "" {
			apiKey = key
		}
	}

	if apiKey == "" {
		switch providerName {
		case "anthropic":
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if apiKey == "" {
		return nil, nil
	}

	providerCfg := llm.DefaultProviderConfig()
	providerCfg.APIKey = apiKey
	if cfg.LLMModel != "" {
		providerCfg.Model = cfg.LLMModel
	} else {
		providerCfg.Model = llm.GetDefaultModel(providerName)
	}

	return llm.NewProvider(providerName, providerCfg)
}

// buildSink resolves the configured analytics sink.
func buildSink(cfg Config) analytics.Sink {
	if cfg.AnalyticsPath == "" {
		return analytics.NoopSink{}
	}
	return analytics.NewFileSink(cfg.AnalyticsPath)
}
