package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/vitals/internal/store"
)

// NewProvider builds the configured provider wrapped, outermost first, in
// timeout, retry and logging decorators. events may be nil to skip logging.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from the environment. It returns
// (nil, false, nil) when no provider is configured.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo) (Provider, bool, error) {
	cfg, ok := ResolveConfig()
	if !ok {
		return nil, false, nil
	}
	p, err := NewProvider(ctx, cfg, events)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
