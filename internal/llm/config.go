package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderFixture    = "fixture"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. See the Provider*
	// constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call, retries included.
	Timeout time.Duration

	// Capture is CaptureFull or CaptureMetadata and decides how much of
	// each call is kept in the request event log.
	Capture string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"

	// AppURL and AppTitle are sent as HTTP-Referer and X-Title so usage
	// shows up under the app on openrouter.ai. AppTitle defaults to "biilim".
	AppURL   string
	AppTitle string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Gemini is the
// default vendor; without a key the fixture provider is used instead.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
		Capture: CaptureFull,
	}
}

// ConfigFromEnv builds a Config from BIILIM_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("BIILIM_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if t := os.Getenv("BIILIM_LLM_TIMEOUT"); t != "" {
		if d, err := parseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	if n := os.Getenv("BIILIM_LLM_MAX_ATTEMPTS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.Retry.MaxAttempts = v
		}
	}

	setFromEnv(&cfg.Capture, "BIILIM_LLM_CAPTURE")
	setFromEnv(&cfg.Anthropic.APIKey, "BIILIM_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "BIILIM_ANTHROPIC_MODEL")
	setFromEnv(&cfg.OpenAI.APIKey, "BIILIM_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "BIILIM_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "BIILIM_OPENAI_BASE_URL")
	setFromEnv(&cfg.Gemini.APIKey, "BIILIM_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "BIILIM_GEMINI_MODEL")
	setFromEnv(&cfg.OpenRouter.APIKey, "BIILIM_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "BIILIM_OPENROUTER_MODEL")
	setFromEnv(&cfg.OpenRouter.AppURL, "BIILIM_OPENROUTER_APP_URL")
	setFromEnv(&cfg.OpenRouter.AppTitle, "BIILIM_OPENROUTER_APP_TITLE")

	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// parseDuration accepts Go durations ("45s") and bare seconds ("45").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig picks the effective configuration: BIILIM_* variables when
// they name a usable provider, otherwise the first standard vendor key,
// otherwise the offline fixture provider.
func ResolveConfig() Config {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg
	}
	if discovered, ok := DiscoverConfig(); ok {
		discovered.Timeout = cfg.Timeout
		discovered.Retry = cfg.Retry
		discovered.Capture = cfg.Capture
		return discovered
	}
	cfg.Provider = ProviderFixture
	return cfg
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("BIILIM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("BIILIM_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("BIILIM_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("BIILIM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderFixture, ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
