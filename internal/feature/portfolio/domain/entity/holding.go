// Package entity はportfolioフィーチャーのドメインエンティティを定義します。
package entity

import "github.com/shopspring/decimal"

// Holding はユーザーが保有する1銘柄分のポジションです。行が存在する間 Shares は常に正です。
type Holding struct {
	UserID uint
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Total  decimal.Decimal

	// Stale は表示時に株価を更新できず、保存済みの価格を使っていることを示します。
	Stale bool
}
