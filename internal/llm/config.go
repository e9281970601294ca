package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all provider configuration.
type Config struct {
	// Provider selects the backend: "gemini", "anthropic", "openai" or
	// "openrouter".
	Provider string `mapstructure:"provider"`

	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Model generates lessons.
	Model string `mapstructure:"model"`
	// LookupModel answers short glossary lookups.
	LookupModel string `mapstructure:"lookup_model"`
	// ImageModel draws visual aids.
	ImageModel string `mapstructure:"image_model"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	LookupModel string `mapstructure:"lookup_model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	LookupModel string `mapstructure:"lookup_model"`
	BaseURL     string `mapstructure:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	LookupModel string `mapstructure:"lookup_model"`
	BaseURL     string `mapstructure:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model:       "gemini-pro",
			LookupModel: "gemini-flash",
			ImageModel:  "gemini-image",
		},
		Anthropic: AnthropicConfig{
			Model:       "claude-sonnet",
			LookupModel: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			LookupModel: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model:       "google/gemini-2.5-pro",
			LookupModel: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 3 * time.Minute,
	}
}

// ForLookup returns a copy of c that targets each provider's lookup model.
func (c Config) ForLookup() Config {
	out := c
	if c.Gemini.LookupModel != "" {
		out.Gemini.Model = c.Gemini.LookupModel
	}
	if c.Anthropic.LookupModel != "" {
		out.Anthropic.Model = c.Anthropic.LookupModel
	}
	if c.OpenAI.LookupModel != "" {
		out.OpenAI.Model = c.OpenAI.LookupModel
	}
	if c.OpenRouter.LookupModel != "" {
		out.OpenRouter.Model = c.OpenRouter.LookupModel
	}
	return out
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	}
	return false
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and selects the first
// provider whose key is found. Models and retry settings are kept from
// base. Returns (base, false) if none is found.
func DiscoverConfig(base Config) (Config, bool) {
	cfg := base

	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"} {
		if k := os.Getenv(name); k != "" {
			cfg.Provider = "gemini"
			cfg.Gemini.APIKey = k
			return cfg, true
		}
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return base, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "anthropic", "openai", "openrouter":
		if !c.HasKey() {
			return fmt.Errorf("llm.%s.api_key (or MASTERREVIEW_LLM_%s_API_KEY) is required for the %s provider",
				c.Provider, strings.ToUpper(c.Provider), c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
