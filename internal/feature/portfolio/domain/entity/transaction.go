package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction は約定の記録です。Shares は買いで正、売りで負になります。作成後は変更されません。
type Transaction struct {
	ID         uint
	UserID     uint
	Symbol     string
	Shares     int64
	Price      decimal.Decimal
	Transacted time.Time
}

// Side は売買の向きです。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)
