package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/career-compass/internal/types"
)

// Client is an abstraction over content-service providers. Implementations
// return the raw response text after envelope unwrapping; parsing it into
// typed records is the normalizer's job.
type Client interface {
	// Generate sends a stage prompt with the stage's output-size budget and
	// returns the raw response text.
	Generate(ctx context.Context, stage types.StageID, prompt string, maxTokens int) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a content-service client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown content provider %q", config.Provider)
	}
}
