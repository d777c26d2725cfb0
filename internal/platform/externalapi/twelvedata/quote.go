package twelvedata

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/guilletomac/CS50-finance/internal/feature/quote/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/quote/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/externalapi/twelvedata/dto"
	"github.com/guilletomac/CS50-finance/internal/shared/ratelimiter"
)

// TwelveDataQuotes はTwelve Dataの /quote エンドポイントから現在値を取得するQuoteProvider実装です。
type TwelveDataQuotes struct {
	cfg     Config
	client  *resty.Client
	limiter ratelimiter.RateLimiterInterface
}

// TwelveDataQuotesがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*TwelveDataQuotes)(nil)

// NewTwelveDataQuotes は調整済みのhttp.Clientを土台にrestyクライアントを組み立てます。
// 呼び出しはlimiterで1分あたりの上限に合わせて間引かれます。
func NewTwelveDataQuotes(cfg Config, httpClient *http.Client, limiter ratelimiter.RateLimiterInterface) *TwelveDataQuotes {
	client := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	return &TwelveDataQuotes{cfg: cfg, client: client, limiter: limiter}
}

// Quote は銘柄の現在値を取得します。
//   - 未知の銘柄（status "error" の 400/404、またはHTTP 400/404）は usecase.ErrInvalidSymbol
//   - タイムアウト、通信エラー、429、5xx は usecase.ErrQuoteUnavailable
func (t *TwelveDataQuotes) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", usecase.ErrQuoteUnavailable, err)
		}
	}

	var body dto.QuoteResponse
	res, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"apikey": t.cfg.APIKey,
		}).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/quote")
	if err != nil {
		return nil, fmt.Errorf("%w: twelvedata: %w", usecase.ErrQuoteUnavailable, err)
	}

	if err := classify(res.StatusCode()); err != nil {
		return nil, fmt.Errorf("%w: twelvedata http %d", err, res.StatusCode())
	}
	if body.Status == "error" {
		if err := classify(body.Code); err != nil {
			return nil, fmt.Errorf("%w: twelvedata %d: %s", err, body.Code, body.Message)
		}
		return nil, fmt.Errorf("%w: twelvedata: %s", usecase.ErrQuoteUnavailable, body.Message)
	}

	price, err := decimal.NewFromString(body.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: parse close %q: %w", usecase.ErrQuoteUnavailable, body.Close, err)
	}

	q := &entity.Quote{Name: body.Name, Symbol: body.Symbol, Price: price}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if q.Name == "" {
		q.Name = q.Symbol
	}
	return q, nil
}

// classify はHTTP（またはボディ内）のステータスコードをドメインエラーに対応付けます。
func classify(code int) error {
	switch {
	case code == 0 || code < http.StatusBadRequest:
		return nil
	case code == http.StatusBadRequest || code == http.StatusNotFound:
		return usecase.ErrInvalidSymbol
	default:
		return usecase.ErrQuoteUnavailable
	}
}
