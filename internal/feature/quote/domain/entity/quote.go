// Package entity はquoteフィーチャーのドメインエンティティを定義します。
package entity

import "github.com/shopspring/decimal"

// Quote は銘柄の現在値です。Priceは常に正の値です。
type Quote struct {
	Name   string
	Symbol string
	Price  decimal.Decimal
}
