package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 资金流水，只追加不修改
// (type, related_entity_id) 作为事件重复投递的去重键
type Transaction struct {
	ID              string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserID          string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type            TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Currency        Currency        `gorm:"type:varchar(10);not null" json:"currency"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"` // 实际资金变动金额
	Fees            decimal.Decimal `gorm:"type:decimal(20,2)" json:"fees"`
	RelatedEntityID string          `gorm:"type:varchar(26);index" json:"related_entity_id,omitempty"` // 关联实体ID，如交易ID
	Description     string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
