// Package adapters はportfolioフィーチャーのGORMリポジトリを提供します。
package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guilletomac/CS50-finance/internal/feature/portfolio/domain/entity"
)

// accountModel はusersテーブルのうち現金残高だけを扱います。
type accountModel struct {
	ID        uint            `gorm:"primaryKey"`
	Cash      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	UpdatedAt time.Time
}

func (accountModel) TableName() string { return "users" }

type holdingModel struct {
	UserID uint            `gorm:"primaryKey;autoIncrement:false"`
	Symbol string          `gorm:"primaryKey;size:16"`
	Name   string          `gorm:"size:255;not null"`
	Shares int64           `gorm:"not null"`
	Price  decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Total  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (holdingModel) TableName() string { return "portfolio" }

func (m holdingModel) toEntity() entity.Holding {
	return entity.Holding{
		UserID: m.UserID,
		Symbol: m.Symbol,
		Name:   m.Name,
		Shares: m.Shares,
		Price:  m.Price,
		Total:  m.Total,
	}
}

type historyModel struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index;not null"`
	Symbol     string          `gorm:"size:16;not null"`
	Shares     int64           `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Transacted time.Time       `gorm:"not null"`
}

func (historyModel) TableName() string { return "histories" }

func historyModelFromEntity(t *entity.Transaction) *historyModel {
	return &historyModel{
		UserID:     t.UserID,
		Symbol:     t.Symbol,
		Shares:     t.Shares,
		Price:      t.Price,
		Transacted: t.Transacted,
	}
}

func (m historyModel) toEntity() entity.Transaction {
	return entity.Transaction{
		ID:         m.ID,
		UserID:     m.UserID,
		Symbol:     m.Symbol,
		Shares:     m.Shares,
		Price:      m.Price,
		Transacted: m.Transacted,
	}
}
