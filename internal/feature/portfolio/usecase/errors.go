// Package usecase はportfolioフィーチャーの売買・入金・評価のビジネスロジックを実装します。
package usecase

import (
	"errors"

	"github.com/guilletomac/CS50-finance/internal/shared/apperror"
)

var (
	ErrInvalidQuantity    = apperror.New(apperror.InvalidQuantity, "Shares must be positive number")
	ErrMissingAmount      = apperror.New(apperror.InvalidAmount, "No cash was selected")
	ErrInvalidAmount      = apperror.New(apperror.InvalidAmount, "Amount must be a positive dollar value")
	ErrInsufficientFunds  = apperror.New(apperror.InsufficientFunds, "Not enough money to buy requested shares")
	ErrInsufficientShares = apperror.New(apperror.InsufficientShares, "Not enough shares specified to sell")
)

// ErrAccountNotFound is returned when the user row backing a cash account is missing.
var ErrAccountNotFound = errors.New("account not found")
