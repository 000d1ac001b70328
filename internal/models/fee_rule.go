package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FeeRuleTrading  = "TRADING"
	FeeRuleExchange = "EXCHANGE"
)

// FeeRule 手续费规则：固定费用 + 百分比费率
// TRADING 规则按证券代码匹配，EXCHANGE 规则按货币对匹配，未命中时使用全局默认
type FeeRule struct {
	ID            string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	RuleType      string          `gorm:"type:varchar(10);not null;index" json:"rule_type"` // TRADING/EXCHANGE
	Symbol        string          `gorm:"type:varchar(20);index" json:"symbol,omitempty"`
	FromCurrency  Currency        `gorm:"type:varchar(10)" json:"from_currency,omitempty"`
	ToCurrency    Currency        `gorm:"type:varchar(10)" json:"to_currency,omitempty"`
	FixedFee      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"fixed_fee"`
	PercentageFee decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"percentage_fee"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (FeeRule) TableName() string {
	return "fee_rules"
}
