package models

import "fmt"

// Currency 平台支持的货币
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// ParseCurrency 解析货币代码
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case USD, EUR, GBP:
		return Currency(s), nil
	default:
		return "", fmt.Errorf("unsupported currency: %s", s)
	}
}

// TradeType 交易方向
type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// OrderType 下单方式：按金额或按数量
type OrderType string

const (
	OrderByAmount   OrderType = "BY_AMOUNT"
	OrderByQuantity OrderType = "BY_QUANTITY"
)

// TradeStatus 交易状态，创建即终态
type TradeStatus string

const (
	TradeStatusCompleted TradeStatus = "COMPLETED"
	TradeStatusFailed    TradeStatus = "FAILED"
)

// TransactionType 流水类型
type TransactionType string

const (
	TxnTypeDeposit    TransactionType = "DEPOSIT"
	TxnTypeWithdrawal TransactionType = "WITHDRAWAL"
	TxnTypeBuy        TransactionType = "BUY"
	TxnTypeSell       TransactionType = "SELL"
	TxnTypeExchange   TransactionType = "CURRENCY_EXCHANGE"
)

// SecurityType 证券类型
type SecurityType string

const (
	SecurityStock      SecurityType = "STOCK"
	SecurityStockIndex SecurityType = "STOCK_INDEX"
	SecurityBondIndex  SecurityType = "BOND_INDEX"
)
