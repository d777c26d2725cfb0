// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/guilletomac/CS50-finance/internal/platform/config"
	"github.com/guilletomac/CS50-finance/internal/platform/externalapi/twelvedata"
	infrahttp "github.com/guilletomac/CS50-finance/internal/platform/http"
	"github.com/guilletomac/CS50-finance/internal/shared/ratelimiter"
)

// NewQuoteProvider creates a Twelve Data client with a tuned HTTP client and
// a limiter pacing calls to the provider's per-minute quota.
func NewQuoteProvider(q config.QuoteConfig) *twelvedata.TwelveDataQuotes {
	cfg := twelvedata.NewConfig(q)
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	return twelvedata.NewTwelveDataQuotes(cfg, httpClient, limiter)
}
