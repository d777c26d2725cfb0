package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/guilletomac/CS50-finance/internal/feature/quote/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
)

const maxSymbolLength = 16

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=:]+$`)

// QuoteProvider は外部の株価プロバイダーを抽象化します。
// 未知の銘柄にはErrInvalidSymbol、障害時にはErrQuoteUnavailableを返します。
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
}

// QuoteObserver は株価取得の結果を記録します。
type QuoteObserver interface {
	ObserveQuote(outcome string, d time.Duration)
}

// quoteUsecase は株価照会を実装します。結果はキャッシュせず、常にプロバイダーに問い合わせます。
type quoteUsecase struct {
	provider QuoteProvider
	timeout  time.Duration
	observer QuoteObserver
}

// NewQuoteUsecase はquoteUsecaseを生成します。observerはnilでも構いません。
func NewQuoteUsecase(provider QuoteProvider, timeout time.Duration, observer QuoteObserver) *quoteUsecase {
	return &quoteUsecase{provider: provider, timeout: timeout, observer: observer}
}

// NormalizeSymbol は前後の空白を除いて大文字化し、銘柄コードとして妥当か検証します。
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrMissingSymbol
	}
	if len(s) > maxSymbolLength || !symbolPattern.MatchString(s) {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// Lookup は銘柄の現在値を取得します。
func (u *quoteUsecase) Lookup(ctx context.Context, symbol string) (*entity.Quote, error) {
	s, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	start := time.Now()
	q, err := u.provider.Quote(ctx, s)
	u.observe(err, time.Since(start))
	if err != nil {
		if (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) && !errors.Is(err, ErrQuoteUnavailable) {
			err = fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
		}
		if errors.Is(err, ErrQuoteUnavailable) {
			logger.FromContext(ctx).WithError(err).WithField("symbol", s).Warn("quote provider unavailable")
			return nil, err
		}
		if errors.Is(err, ErrInvalidSymbol) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup %s: %w", s, err)
	}
	if !q.Price.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive price for %s", ErrQuoteUnavailable, s)
	}
	return q, nil
}

func (u *quoteUsecase) observe(err error, d time.Duration) {
	if u.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidSymbol):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	u.observer.ObserveQuote(outcome, d)
}
