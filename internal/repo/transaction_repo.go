package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"gorm.io/gorm"
)

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{
		Repository: orz.NewRepository[models.Transaction, string](db),
	}
}

type TransactionRepo struct {
	orz.Repository[models.Transaction, string]
}

// FindByUser 按用户查询流水，type 为空时不过滤
func (r TransactionRepo) FindByUser(ctx context.Context, userID string, txnType models.TransactionType, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	db := r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("user_id = ?", userID)
	if txnType != "" {
		db = db.Where("type = ?", txnType)
	}
	err := db.Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// ExistsByTypeAndRelatedEntity 判断 (类型, 关联实体) 的流水是否已存在，用于重复事件去重
func (r TransactionRepo) ExistsByTypeAndRelatedEntity(ctx context.Context, txnType models.TransactionType, relatedEntityID string) (bool, error) {
	var count int64
	err := r.GetDB(ctx).
		Table(r.GetTableName()).
		Where("type = ? AND related_entity_id = ?", txnType, relatedEntityID).
		Count(&count).Error
	return count > 0, err
}
