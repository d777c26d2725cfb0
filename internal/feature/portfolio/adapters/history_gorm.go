package adapters

import (
	"context"

	"gorm.io/gorm"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
)

type historyGorm struct {
	db *gorm.DB
}

// Record は取引を追記し、採番されたIDをtxに設定します。
func (r *historyGorm) Record(ctx context.Context, tx *entity.Transaction) error {
	m := historyModelFromEntity(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.ID = m.ID
	return nil
}

// ListByUser は取引を記録順に返します。
func (r *historyGorm) ListByUser(ctx context.Context, userID uint) ([]entity.Transaction, error) {
	var rows []historyModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]entity.Transaction, 0, len(rows))
	for _, m := range rows {
		txs = append(txs, m.toEntity())
	}
	return txs, nil
}
