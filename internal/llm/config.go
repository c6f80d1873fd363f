// Package llm provides centralized content-service configuration and client
// abstractions. This package enables switching providers without touching the
// generation pipeline.
package llm

import "time"

// Provider represents a content-service provider.
type Provider string

// Provider constants define supported providers.
const (
	// ProviderAnthropic is the Anthropic messages API over HTTP (default).
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// defaultBaseURL is the production endpoint for the Anthropic provider.
const defaultBaseURL = "https://api.anthropic.com/v1/messages"

// defaultTemperature is applied to every generation request.
const defaultTemperature = 0.7

// Config holds the content-service configuration for the application.
type Config struct {
	Provider    Provider
	Model       string
	Temperature float64
	BaseURL     string
	// Timeout bounds each transport call. Zero means no client-side timeout;
	// a hung transport then leaves the calling stage in-flight indefinitely.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (currently Anthropic).
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderAnthropic,
		Model:       "claude-sonnet-4-20250514",
		Temperature: defaultTemperature,
		BaseURL:     defaultBaseURL,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		Temperature: defaultTemperature,
	}
}
