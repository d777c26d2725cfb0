// Package handler はquoteフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/feature/quote/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/quote/transport/http/dto"
	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
)

// QuoteUsecase は株価照会のユースケースです。
type QuoteUsecase interface {
	Lookup(ctx context.Context, symbol string) (*entity.Quote, error)
}

// QuoteHandler は /quote を処理します。
type QuoteHandler struct {
	quotes QuoteUsecase
}

// NewQuoteHandler はQuoteHandlerを生成します。
func NewQuoteHandler(quotes QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Form は照会フォームを表示します。
func (h *QuoteHandler) Form(c *gin.Context) {
	view.Render(c, http.StatusOK, "quote.html", gin.H{"Title": "Quote"})
}

// Lookup は銘柄を照会して結果ページを表示します。
func (h *QuoteHandler) Lookup(c *gin.Context) {
	var form dto.QuoteForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	q, err := h.quotes.Lookup(c.Request.Context(), form.Symbol)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	view.Render(c, http.StatusOK, "quoted.html", gin.H{"Title": "Quoted", "Quote": q})
}
