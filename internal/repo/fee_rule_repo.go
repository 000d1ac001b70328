package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"gorm.io/gorm"
)

func NewFeeRuleRepo(db *gorm.DB) *FeeRuleRepo {
	return &FeeRuleRepo{
		Repository: orz.NewRepository[models.FeeRule, string](db),
	}
}

type FeeRuleRepo struct {
	orz.Repository[models.FeeRule, string]
}

// FindTradingRule 查找证券的交易手续费规则
func (r FeeRuleRepo) FindTradingRule(ctx context.Context, symbol string) (m models.FeeRule, err error) {
	err = r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("rule_type = ? AND symbol = ?", models.FeeRuleTrading, symbol).
		First(&m).Error
	return m, err
}

// FindExchangeRule 查找货币对的兑换手续费规则
func (r FeeRuleRepo) FindExchangeRule(ctx context.Context, from, to models.Currency) (m models.FeeRule, err error) {
	err = r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("rule_type = ? AND from_currency = ? AND to_currency = ?", models.FeeRuleExchange, from, to).
		First(&m).Error
	return m, err
}
