// Package dto はportfolioフィーチャーのフォーム入力を定義します。
// 値は文字列のまま受け取り、検証はusecaseのコマンド生成で行います。
package dto

// TradeForm は POST /buy と POST /sell のフォームです。
type TradeForm struct {
	Symbol string `form:"symbol"`
	Shares string `form:"shares"`
}

// DepositForm は POST /cash のフォームです。
type DepositForm struct {
	Amount string `form:"amount"`
}
