package llm

import (
	"fmt"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderGemini:     "gemini-flash",
}

// Config selects and tunes a provider.
type Config struct {
	Provider string
	Model    string // empty uses the provider default
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only

	Timeout     time.Duration
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderAnthropic,
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
	}
}

// ModelOrDefault returns Model or the provider's default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// Validate reports a missing key or unknown provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (set PREPDECK_LLM_API_KEY)", c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
