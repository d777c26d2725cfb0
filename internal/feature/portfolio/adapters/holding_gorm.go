package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/usecase"
	"github.com/guilletomac/CS50-finance/internal/shared/money"
)

type holdingGorm struct {
	db      *gorm.DB
	locking bool
}

func (r *holdingGorm) ListByUser(ctx context.Context, userID uint) ([]entity.Holding, error) {
	var rows []holdingModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("symbol").Find(&rows).Error; err != nil {
		return nil, err
	}
	holdings := make([]entity.Holding, 0, len(rows))
	for _, m := range rows {
		holdings = append(holdings, m.toEntity())
	}
	return holdings, nil
}

func (r *holdingGorm) find(ctx context.Context, userID uint, symbol string) (*holdingModel, error) {
	var m holdingModel
	err := forUpdate(r.db.WithContext(ctx), r.locking).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *holdingGorm) Find(ctx context.Context, userID uint, symbol string) (*entity.Holding, error) {
	m, err := r.find(ctx, userID, symbol)
	if err != nil || m == nil {
		return nil, err
	}
	h := m.toEntity()
	return &h, nil
}

func (r *holdingGorm) ApplyDelta(ctx context.Context, userID uint, symbol, name string, delta int64, price decimal.Decimal) error {
	m, err := r.find(ctx, userID, symbol)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)

	if m == nil {
		if delta <= 0 {
			return usecase.ErrInsufficientShares
		}
		row := holdingModel{
			UserID: userID,
			Symbol: symbol,
			Name:   name,
			Shares: delta,
			Price:  price,
			Total:  valuation(price, delta),
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("create holding: %w", err)
		}
		return nil
	}

	shares := m.Shares + delta
	where := db.Where("user_id = ? AND symbol = ?", userID, symbol)
	switch {
	case shares < 0:
		return usecase.ErrInsufficientShares
	case shares == 0:
		return where.Delete(&holdingModel{}).Error
	}
	if name == "" {
		name = m.Name
	}
	return where.Model(&holdingModel{}).Updates(map[string]any{
		"shares": shares,
		"name":   name,
		"price":  price,
		"total":  valuation(price, shares),
	}).Error
}

// RefreshPrice は読み取った株数が変わっていない場合だけ価格を更新します。
// 並行する売買が先に反映された場合は何もしません。
func (r *holdingGorm) RefreshPrice(ctx context.Context, userID uint, symbol string, price decimal.Decimal) error {
	m, err := r.find(ctx, userID, symbol)
	if err != nil || m == nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&holdingModel{}).
		Where("user_id = ? AND symbol = ? AND shares = ?", userID, symbol, m.Shares).
		Updates(map[string]any{"price": price, "total": valuation(price, m.Shares)}).Error
}

func valuation(price decimal.Decimal, shares int64) decimal.Decimal {
	return money.Cents(price.Mul(decimal.NewFromInt(shares)))
}
