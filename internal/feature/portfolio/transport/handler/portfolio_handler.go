// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/transport/http/dto"
	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
	"github.com/guilletomac/CS50-finance/internal/shared/identity"
)

var errNoIdentity = errors.New("no authenticated user on request")

// PortfolioUsecase は売買・入金・照会のユースケースです。
type PortfolioUsecase interface {
	Buy(ctx context.Context, userID uint, cmd usecase.TradeCommand) (*entity.Transaction, error)
	Sell(ctx context.Context, userID uint, cmd usecase.TradeCommand) (*entity.Transaction, error)
	Deposit(ctx context.Context, userID uint, cmd usecase.DepositCommand) (decimal.Decimal, error)
	Portfolio(ctx context.Context, userID uint) (*entity.Portfolio, error)
	History(ctx context.Context, userID uint) ([]entity.Transaction, error)
	SellableSymbols(ctx context.Context, userID uint) ([]string, error)
}

// PortfolioHandler は /, /buy, /sell, /history, /cash を処理します。
// どのルートもログイン必須のミドルウェアの後ろに置きます。
type PortfolioHandler struct {
	portfolio PortfolioUsecase
}

// NewPortfolioHandler はPortfolioHandlerを生成します。
func NewPortfolioHandler(portfolio PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// Index は保有一覧と評価額を表示します。
func (h *PortfolioHandler) Index(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.portfolio.Portfolio(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "index.html", gin.H{
		"Title":      "Portfolio",
		"Holdings":   p.Holdings,
		"Cash":       p.Cash,
		"GrandTotal": p.GrandTotal,
		"AnyStale":   p.AnyStale,
	})
}

// BuyForm は購入フォームを表示します。
func (h *PortfolioHandler) BuyForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "buy.html", gin.H{"Title": "Buy"})
}

// Buy は購入を実行してトップページへリダイレクトします。
func (h *PortfolioHandler) Buy(c *gin.Context) {
	h.trade(c, h.portfolio.Buy)
}

// SellForm は保有銘柄を選択肢にした売却フォームを表示します。
func (h *PortfolioHandler) SellForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	symbols, err := h.portfolio.SellableSymbols(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "sell.html", gin.H{"Title": "Sell", "Symbols": symbols})
}

// Sell は売却を実行してトップページへリダイレクトします。
func (h *PortfolioHandler) Sell(c *gin.Context) {
	h.trade(c, h.portfolio.Sell)
}

// History は取引履歴を表示します。
func (h *PortfolioHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	txs, err := h.portfolio.History(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "history.html", gin.H{"Title": "History", "Transactions": txs})
}

// CashForm は入金フォームを表示します。
func (h *PortfolioHandler) CashForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "cash.html", gin.H{"Title": "Add Cash"})
}

// Deposit は入金してトップページへリダイレクトします。
func (h *PortfolioHandler) Deposit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var form dto.DepositForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}
	cmd, err := usecase.NewDepositCommand(form.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.portfolio.Deposit(c.Request.Context(), userID, cmd); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

type tradeFunc func(ctx context.Context, userID uint, cmd usecase.TradeCommand) (*entity.Transaction, error)

func (h *PortfolioHandler) trade(c *gin.Context, execute tradeFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var form dto.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}
	cmd, err := usecase.NewTradeCommand(form.Symbol, form.Shares)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := execute(c.Request.Context(), userID, cmd); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// currentUser はログイン中のユーザーIDを返します。無い場合は500として中断します。
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := identity.UserID(c.Request.Context())
	if !ok {
		fail(c, errNoIdentity)
	}
	return userID, ok
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
