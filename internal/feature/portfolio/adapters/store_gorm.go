package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/usecase"
)

// storeGorm はusecase.StoreのGORM実装です。locking はトランザクション内でのみ true になります。
type storeGorm struct {
	db      *gorm.DB
	locking bool
}

var _ usecase.Store = (*storeGorm)(nil)

// NewStoreGorm はstoreGormを生成します。
func NewStoreGorm(db *gorm.DB) *storeGorm {
	return &storeGorm{db: db}
}

func (s *storeGorm) Holdings() usecase.HoldingRepository { return &holdingGorm{db: s.db, locking: s.locking} }
func (s *storeGorm) Cash() usecase.CashRepository        { return &cashGorm{db: s.db, locking: s.locking} }
func (s *storeGorm) History() usecase.HistoryRepository  { return &historyGorm{db: s.db} }

// WithinTx runs fn inside a database transaction.
func (s *storeGorm) WithinTx(ctx context.Context, fn func(tx usecase.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeGorm{db: tx, locking: true})
	})
}

// forUpdate はPostgreSQLのトランザクション内でのみ SELECT ... FOR UPDATE を付けます。
// SQLiteは接続が1本なので書き込みは直列化されます。
// ロック順は常に users → portfolio です。取引はCash().Balanceを先に呼びます。
func forUpdate(db *gorm.DB, locking bool) *gorm.DB {
	if locking && db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
