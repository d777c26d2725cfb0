// Package apperror はアプリケーション全体で共有するエラー分類を定義します。
// 各フィーチャーはこのパッケージのKindを使って番兵エラーを宣言し、
// HTTP層は Kind からステータスコードを決定します。
package apperror

import (
	"errors"
	"net/http"
)

// Kind はエラーの分類です。
type Kind int

const (
	// Internal は分類不能なエラーです（500）。
	Internal Kind = iota
	// InvalidInput はフォーム項目の欠落・不正です。
	InvalidInput
	// InvalidSymbol は銘柄コードが不正、または見つからないことを表します。
	InvalidSymbol
	// InvalidQuantity は株数が不正であることを表します。
	InvalidQuantity
	// InvalidAmount は入金額が不正であることを表します。
	InvalidAmount
	// InsufficientFunds は現金残高不足です。
	InsufficientFunds
	// InsufficientShares は保有株数不足です。
	InsufficientShares
	// DuplicateUsername はユーザー名の重複です。
	DuplicateUsername
	// InvalidCredentials は認証失敗です。
	InvalidCredentials
	// QuoteUnavailable は株価プロバイダーのタイムアウトやエラーです。
	QuoteUnavailable
	// TooManyRequests はレート制限超過です。
	TooManyRequests
	// NotFound は存在しないリソースです。
	NotFound
)

var kindNames = map[Kind]string{
	Internal:           "Internal",
	InvalidInput:       "InvalidInput",
	InvalidSymbol:      "InvalidSymbol",
	InvalidQuantity:    "InvalidQuantity",
	InvalidAmount:      "InvalidAmount",
	InsufficientFunds:  "InsufficientFunds",
	InsufficientShares: "InsufficientShares",
	DuplicateUsername:  "DuplicateUsername",
	InvalidCredentials: "InvalidCredentials",
	QuoteUnavailable:   "QuoteUnavailable",
	TooManyRequests:    "TooManyRequests",
	NotFound:           "NotFound",
}

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Internal"
}

// Status returns the HTTP status code rendered for the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidInput, InvalidSymbol, InvalidQuantity, InvalidAmount,
		InsufficientFunds, InsufficientShares, DuplicateUsername:
		return http.StatusBadRequest
	case InvalidCredentials:
		return http.StatusForbidden
	case QuoteUnavailable:
		return http.StatusServiceUnavailable
	case TooManyRequests:
		return http.StatusTooManyRequests
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error はユーザーに表示してよいメッセージを持つ分類済みエラーです。
type Error struct {
	Kind    Kind
	Message string
}

// New creates a classified error. Values returned by New are meant to be
// declared once as package-level sentinels and compared with errors.Is.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message for err. Unclassified errors
// never leak their text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != Internal {
		return appErr.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}
