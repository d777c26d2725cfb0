package usecase

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	quoteusecase "github.com/guilletomac/CS50-finance/internal/feature/quote/usecase"
	"github.com/guilletomac/CS50-finance/internal/shared/money"
)

// maxCashBalance は users.cash (NUMERIC(18,2)) に収まる最大値です。
var maxCashBalance = decimal.RequireFromString("9999999999999999.99")

// TradeCommand は検証済みの売買指示です。Symbol は正規化済み、Shares は正の整数です。
type TradeCommand struct {
	Symbol string
	Shares int64
}

// DepositCommand は検証済みの入金指示です。Amount はセント単位に丸めた正の値です。
type DepositCommand struct {
	Amount decimal.Decimal
}

// NewTradeCommand はフォームの文字列を検証してTradeCommandを作ります。
// 銘柄を先に検証し、次に株数を検証します。0株も不正です。
func NewTradeCommand(symbol, shares string) (TradeCommand, error) {
	s, err := quoteusecase.NormalizeSymbol(symbol)
	if err != nil {
		return TradeCommand{}, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(shares), 10, 64)
	if err != nil || n < 1 {
		return TradeCommand{}, ErrInvalidQuantity
	}
	return TradeCommand{Symbol: s, Shares: n}, nil
}

// NewDepositCommand はフォームの金額を検証してDepositCommandを作ります。
func NewDepositCommand(amount string) (DepositCommand, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return DepositCommand{}, ErrMissingAmount
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return DepositCommand{}, ErrInvalidAmount
	}
	d = money.Cents(d)
	if !d.IsPositive() || d.GreaterThan(maxCashBalance) {
		return DepositCommand{}, ErrInvalidAmount
	}
	return DepositCommand{Amount: d}, nil
}
