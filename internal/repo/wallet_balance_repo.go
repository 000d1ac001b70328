package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"gorm.io/gorm"
)

func NewWalletBalanceRepo(db *gorm.DB) *WalletBalanceRepo {
	return &WalletBalanceRepo{
		Repository: orz.NewRepository[models.WalletBalance, string](db),
	}
}

type WalletBalanceRepo struct {
	orz.Repository[models.WalletBalance, string]
}

// FindByUserAndCurrency 查找用户某货币的余额记录
func (r WalletBalanceRepo) FindByUserAndCurrency(ctx context.Context, userID string, currency models.Currency) (m models.WalletBalance, err error) {
	err = r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ? AND currency = ?", userID, currency).
		First(&m).Error
	return m, err
}

// FindByUser 查找用户的全部余额记录
func (r WalletBalanceRepo) FindByUser(ctx context.Context, userID string) ([]models.WalletBalance, error) {
	var balances []models.WalletBalance
	err := r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&balances).Error
	return balances, err
}
