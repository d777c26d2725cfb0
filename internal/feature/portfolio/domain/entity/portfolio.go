package entity

import "github.com/shopspring/decimal"

// Portfolio はトップページに表示する保有一覧と評価額です。
type Portfolio struct {
	Holdings   []Holding
	Cash       decimal.Decimal
	GrandTotal decimal.Decimal
	AnyStale   bool
}
