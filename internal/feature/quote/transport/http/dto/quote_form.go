// Package dto はquoteフィーチャーのフォーム入力を定義します。
package dto

// QuoteForm は POST /quote のフォーム値です。
type QuoteForm struct {
	Symbol string `form:"symbol"`
}
