package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
	quoteentity "github.com/guilletomac/CS50-finance/internal/feature/quote/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/shared/apperror"
	"github.com/guilletomac/CS50-finance/internal/shared/money"
)

// refreshConcurrency はトップページ表示時に同時に行う株価取得の上限です。
const refreshConcurrency = 4

// QuoteLookup は正規化とエラー分類を済ませた株価照会です。
type QuoteLookup interface {
	Lookup(ctx context.Context, symbol string) (*quoteentity.Quote, error)
}

// TradeObserver は売買の結果を記録します。
type TradeObserver interface {
	ObserveTrade(side, outcome string)
}

type portfolioUsecase struct {
	store    Store
	quotes   QuoteLookup
	observer TradeObserver
	now      func() time.Time
}

// NewPortfolioUsecase はportfolioUsecaseを生成します。observerはnilでも構いません。
func NewPortfolioUsecase(store Store, quotes QuoteLookup, observer TradeObserver) *portfolioUsecase {
	return &portfolioUsecase{store: store, quotes: quotes, observer: observer, now: time.Now}
}

// Buy は現在値でcmd.Shares株を購入し、記録した取引を返します。
// 残高確認・履歴追加・出金・保有更新は1つのトランザクションで行います。
func (u *portfolioUsecase) Buy(ctx context.Context, userID uint, cmd TradeCommand) (*entity.Transaction, error) {
	q, err := u.quotes.Lookup(ctx, cmd.Symbol)
	if err != nil {
		u.observe(entity.SideBuy, err)
		return nil, err
	}

	cost := money.Cents(q.Price.Mul(decimal.NewFromInt(cmd.Shares)))
	tx := &entity.Transaction{
		UserID:     userID,
		Symbol:     cmd.Symbol,
		Shares:     cmd.Shares,
		Price:      q.Price,
		Transacted: u.now(),
	}

	err = u.store.WithinTx(ctx, func(s Store) error {
		cash, err := s.Cash().Balance(ctx, userID)
		if err != nil {
			return err
		}
		if cash.LessThan(cost) {
			return ErrInsufficientFunds
		}
		if err := s.History().Record(ctx, tx); err != nil {
			return fmt.Errorf("record buy: %w", err)
		}
		if err := s.Cash().Adjust(ctx, userID, cost.Neg()); err != nil {
			return fmt.Errorf("debit cash: %w", err)
		}
		return s.Holdings().ApplyDelta(ctx, userID, cmd.Symbol, q.Name, cmd.Shares, q.Price)
	})
	u.observe(entity.SideBuy, err)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"user_id": userID,
		"symbol":  cmd.Symbol,
		"shares":  cmd.Shares,
		"cost":    cost.StringFixed(money.CentsPlaces),
	}).Info("buy executed")
	return tx, nil
}

// Sell は現在値でcmd.Shares株を売却し、記録した取引を返します。全株売却した銘柄は保有一覧から消えます。
func (u *portfolioUsecase) Sell(ctx context.Context, userID uint, cmd TradeCommand) (*entity.Transaction, error) {
	q, err := u.quotes.Lookup(ctx, cmd.Symbol)
	if err != nil {
		u.observe(entity.SideSell, err)
		return nil, err
	}

	proceeds := money.Cents(q.Price.Mul(decimal.NewFromInt(cmd.Shares)))
	tx := &entity.Transaction{
		UserID:     userID,
		Symbol:     cmd.Symbol,
		Shares:     -cmd.Shares,
		Price:      q.Price,
		Transacted: u.now(),
	}

	err = u.store.WithinTx(ctx, func(s Store) error {
		// Buyと同じ順序 (users → portfolio) で行ロックを取る
		if _, err := s.Cash().Balance(ctx, userID); err != nil {
			return err
		}
		h, err := s.Holdings().Find(ctx, userID, cmd.Symbol)
		if err != nil {
			return err
		}
		if h == nil || h.Shares < cmd.Shares {
			return ErrInsufficientShares
		}
		if err := s.History().Record(ctx, tx); err != nil {
			return fmt.Errorf("record sell: %w", err)
		}
		if err := s.Cash().Adjust(ctx, userID, proceeds); err != nil {
			return fmt.Errorf("credit cash: %w", err)
		}
		return s.Holdings().ApplyDelta(ctx, userID, cmd.Symbol, q.Name, -cmd.Shares, q.Price)
	})
	u.observe(entity.SideSell, err)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"user_id":  userID,
		"symbol":   cmd.Symbol,
		"shares":   cmd.Shares,
		"proceeds": proceeds.StringFixed(money.CentsPlaces),
	}).Info("sell executed")
	return tx, nil
}

// Deposit は現金を入金し、入金後の残高を返します。
func (u *portfolioUsecase) Deposit(ctx context.Context, userID uint, cmd DepositCommand) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := u.store.WithinTx(ctx, func(s Store) error {
		current, err := s.Cash().Balance(ctx, userID)
		if err != nil {
			return err
		}
		if current.Add(cmd.Amount).GreaterThan(maxCashBalance) {
			return ErrInvalidAmount
		}
		if err := s.Cash().Adjust(ctx, userID, cmd.Amount); err != nil {
			return err
		}
		balance, err = s.Cash().Balance(ctx, userID)
		return err
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposit: %w", err)
	}
	return balance, nil
}

// Portfolio は各銘柄の株価を取り直して評価額を計算します。
// 取得に失敗した銘柄は保存済みの価格を使い、Staleとして表示します。
func (u *portfolioUsecase) Portfolio(ctx context.Context, userID uint) (*entity.Portfolio, error) {
	holdings, err := u.store.Holdings().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}

	log := logger.FromContext(ctx)
	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for i := range holdings {
		h := &holdings[i]
		g.Go(func() error {
			q, err := u.quotes.Lookup(ctx, h.Symbol)
			if err != nil {
				h.Stale = true
				log.WithError(err).WithField("symbol", h.Symbol).Warn("price refresh failed, using stored price")
				return nil
			}
			h.Price = q.Price
			h.Total = money.Cents(q.Price.Mul(decimal.NewFromInt(h.Shares)))
			if err := u.store.Holdings().RefreshPrice(ctx, userID, h.Symbol, q.Price); err != nil {
				log.WithError(err).WithField("symbol", h.Symbol).Warn("failed to persist refreshed price")
			}
			return nil
		})
	}
	_ = g.Wait()

	cash, err := u.store.Cash().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cash: %w", err)
	}

	p := &entity.Portfolio{Holdings: holdings, Cash: cash, GrandTotal: cash}
	for _, h := range holdings {
		p.GrandTotal = p.GrandTotal.Add(h.Total)
		p.AnyStale = p.AnyStale || h.Stale
	}
	return p, nil
}

// History は取引を古い順に返します。
func (u *portfolioUsecase) History(ctx context.Context, userID uint) ([]entity.Transaction, error) {
	txs, err := u.store.History().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return txs, nil
}

// SellableSymbols は売却フォームに表示する保有銘柄です。
func (u *portfolioUsecase) SellableSymbols(ctx context.Context, userID uint) ([]string, error) {
	holdings, err := u.store.Holdings().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols, nil
}

func (u *portfolioUsecase) observe(side entity.Side, err error) {
	if u.observer == nil {
		return
	}
	outcome := "ok"
	var appErr *apperror.Error
	switch {
	case err == nil:
	case errors.As(err, &appErr) && appErr.Kind != apperror.Internal:
		outcome = "rejected"
	default:
		outcome = "error"
	}
	u.observer.ObserveTrade(string(side), outcome)
}
