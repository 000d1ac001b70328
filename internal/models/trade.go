package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade 交易记录，创建后不可变更
type Trade struct {
	ID            string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserID        string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Symbol        string          `gorm:"type:varchar(20);not null;index" json:"symbol"`                // 证券代码
	TradeType     TradeType       `gorm:"type:varchar(10);not null" json:"trade_type"`                  // BUY/SELL
	OrderType     OrderType       `gorm:"type:varchar(15);not null" json:"order_type"`                  // BY_AMOUNT/BY_QUANTITY
	Quantity      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"quantity"`                  // 成交数量
	PricePerUnit  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price_per_unit"`            // 成交单价
	Currency      Currency        `gorm:"type:varchar(10);not null" json:"currency"`                    // 结算货币
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`              // 实际资金变动：买入含手续费，卖出已扣手续费
	Fees          decimal.Decimal `gorm:"type:decimal(20,2)" json:"fees"`                               // 手续费
	Status        TradeStatus     `gorm:"type:varchar(10);not null;index" json:"status"`                // COMPLETED/FAILED
	FailureReason string          `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`            // 失败原因（仅FAILED）
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// TableName 指定表名
func (Trade) TableName() string {
	return "trades"
}
