// Package usecase はquoteフィーチャーのビジネスロジックを実装します。
package usecase

import "github.com/guilletomac/CS50-finance/internal/shared/apperror"

var (
	// ErrMissingSymbol is returned when no symbol was submitted.
	ErrMissingSymbol = apperror.New(apperror.InvalidInput, "Please submit a valid stock name")

	// ErrInvalidSymbol is returned for malformed symbols and symbols the provider does not know.
	ErrInvalidSymbol = apperror.New(apperror.InvalidSymbol, "invalid symbol")

	// ErrQuoteUnavailable is returned when the provider times out, rate limits or fails.
	ErrQuoteUnavailable = apperror.New(apperror.QuoteUnavailable, "quote service unavailable, try again later")
)
