// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"time"

	"github.com/guilletomac/CS50-finance/internal/platform/config"
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey            string        // API key for authentication
	BaseURL           string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout           time.Duration // HTTP request timeout
	RequestsPerMinute int           // Provider quota; 0 disables client-side pacing
}

// NewConfig maps the application quote settings onto the client configuration.
func NewConfig(q config.QuoteConfig) Config {
	return Config{
		APIKey:            q.APIKey,
		BaseURL:           q.BaseURL,
		Timeout:           q.Timeout,
		RequestsPerMinute: q.RequestsPerMinute,
	}
}
