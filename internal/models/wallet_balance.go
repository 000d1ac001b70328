package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletBalance 钱包余额，(user_id, currency) 唯一
// 余额不允许为负，任何借记前必须先通过资金校验
type WalletBalance struct {
	ID        string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserID    string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_balances_user_currency" json:"user_id"`
	Currency  Currency        `gorm:"type:varchar(10);not null;uniqueIndex:idx_balances_user_currency" json:"currency"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (WalletBalance) TableName() string {
	return "wallet_balances"
}
