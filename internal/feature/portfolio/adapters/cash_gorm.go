package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/usecase"
	"github.com/guilletomac/CS50-finance/internal/shared/money"
)

type cashGorm struct {
	db      *gorm.DB
	locking bool
}

// Balance はユーザーの現金残高を返します。トランザクション内では行ロックを取ります。
func (r *cashGorm) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var a accountModel
	err := forUpdate(r.db.WithContext(ctx), r.locking).Select("id", "cash").Where("id = ?", userID).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, usecase.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return a.Cash, nil
}

// Adjust は残高を読み直してdeltaを加算します。
// 金額は10進数文字列で保存するため、SQL側の算術には任せません。
func (r *cashGorm) Adjust(ctx context.Context, userID uint, delta decimal.Decimal) error {
	balance, err := r.Balance(ctx, userID)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&accountModel{}).Where("id = ?", userID).Updates(map[string]any{
		"cash":       money.Cents(balance.Add(delta)),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("update cash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrAccountNotFound
	}
	return nil
}
