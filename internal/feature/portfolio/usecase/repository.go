package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
)

// HoldingRepository は保有銘柄の永続化層です。
type HoldingRepository interface {
	// ListByUser は銘柄順に保有一覧を返します。
	ListByUser(ctx context.Context, userID uint) ([]entity.Holding, error)

	// Find は保有銘柄を返します。保有していない場合は (nil, nil) です。
	// トランザクション内ではPostgreSQLの行ロックを取ります。
	Find(ctx context.Context, userID uint, symbol string) (*entity.Holding, error)

	// ApplyDelta は株数をdelta増減し、名前・価格・評価額を更新します。
	// 初回の買いで行を作成し、0株になった行は削除します。負になる場合はErrInsufficientSharesです。
	ApplyDelta(ctx context.Context, userID uint, symbol, name string, delta int64, price decimal.Decimal) error

	// RefreshPrice は価格と評価額だけを更新します。
	RefreshPrice(ctx context.Context, userID uint, symbol string, price decimal.Decimal) error
}

// CashRepository はユーザーの現金残高です。
type CashRepository interface {
	Balance(ctx context.Context, userID uint) (decimal.Decimal, error)
	// Adjust は残高にdeltaを加えます。負残高のチェックは呼び出し側の責務です。
	Adjust(ctx context.Context, userID uint, delta decimal.Decimal) error
}

// HistoryRepository は追記専用の取引履歴です。
type HistoryRepository interface {
	Record(ctx context.Context, tx *entity.Transaction) error
	ListByUser(ctx context.Context, userID uint) ([]entity.Transaction, error)
}

// Store はportfolioの永続化をまとめた単位です。
type Store interface {
	Holdings() HoldingRepository
	Cash() CashRepository
	History() HistoryRepository

	// WithinTx はfnを1つのトランザクションで実行します。fnがエラーを返すかパニックした場合はロールバックします。
	// fn の中では引数のStoreだけを使います。
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
