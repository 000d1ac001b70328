package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding 持仓，(user_id, symbol) 唯一，数量归零后保留记录
type Holding struct {
	ID           string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserID       string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_holdings_user_symbol" json:"user_id"`
	Symbol       string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_holdings_user_symbol" json:"symbol"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"quantity"`      // 持有数量，不会为负
	AveragePrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"average_price"` // 加权平均成本，数量为零时必须为零
	Currency     Currency        `gorm:"type:varchar(10);not null" json:"currency"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Holding) TableName() string {
	return "holdings"
}
