package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security 证券行情快照，由行情服务在内存中维护，不落库
type Security struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         SecurityType    `json:"type"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// ExchangeRate 汇率快照，随时间漂移，读取方不得跨操作缓存
type ExchangeRate struct {
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	LastUpdated  time.Time       `json:"last_updated"`
}
