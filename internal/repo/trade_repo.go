package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"gorm.io/gorm"
)

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{
		Repository: orz.NewRepository[models.Trade, string](db),
	}
}

type TradeRepo struct {
	orz.Repository[models.Trade, string]
}

// FindRecentByUser 获取用户最近的交易记录
func (r TradeRepo) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	err := r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}
