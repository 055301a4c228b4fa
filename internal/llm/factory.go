package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/prepdeck/internal/logger"
)

// New builds the configured provider wrapped as
// caller → retry → recorder → provider, so every attempt is recorded.
func New(ctx context.Context, cfg Config, rec Recorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model := cfg.ModelOrDefault()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderMock:
		return NewMock(), nil
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.APIKey, model)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenRouter:
		url := cfg.BaseURL
		if url == "" {
			url = openRouterBaseURL
		}
		base, err = NewOpenAI(cfg.APIKey, model, url)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.APIKey, model)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.Provider, err)
	}

	p := WithRecorder(base, cfg.Provider, rec, log)
	return WithRetry(p, cfg.MaxAttempts, cfg.InitialWait, cfg.MaxWait), nil
}
