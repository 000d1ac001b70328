package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"gorm.io/gorm"
)

func NewHoldingRepo(db *gorm.DB) *HoldingRepo {
	return &HoldingRepo{
		Repository: orz.NewRepository[models.Holding, string](db),
	}
}

type HoldingRepo struct {
	orz.Repository[models.Holding, string]
}

// FindByUserAndSymbol 查找用户某证券的持仓
func (r HoldingRepo) FindByUserAndSymbol(ctx context.Context, userID, symbol string) (m models.Holding, err error) {
	err = r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		First(&m).Error
	return m, err
}

// FindByUser 查找用户的全部持仓
func (r HoldingRepo) FindByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	err := r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ?", userID).
		Order("symbol ASC").
		Find(&holdings).Error
	return holdings, err
}
