package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and logging middleware. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, events, log)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewImageGenerator creates the visual-aid generator. Only Gemini image
// models are supported; any configuration without a Gemini key returns
// ErrImagesUnsupported. The generator is wrapped with the same retry and
// logging middleware as text providers.
func NewImageGenerator(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (ImageGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, ErrImagesUnsupported
	}
	gcfg := cfg.Gemini
	if gcfg.ImageModel != "" {
		gcfg.Model = gcfg.ImageModel
	}
	gen, err := NewGeminiProvider(ctx, gcfg)
	if err != nil {
		return nil, fmt.Errorf("initializing image provider: %w", err)
	}
	return WithImageRetry(WithImageLogging(gen, "gemini", events, log), cfg.Retry), nil
}
