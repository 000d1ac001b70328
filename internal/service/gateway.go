package service

import (
	"context"

	"github.com/laoyang/quanta/internal/models"
	"github.com/shopspring/decimal"
)

// 跨服务调用的显式接口。引擎只依赖这些接口，不依赖具体行情/费率/钱包实现，
// 便于替换为远程客户端或测试桩。

// PricingGateway 证券现价查询
type PricingGateway interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// RateGateway 汇率查询
type RateGateway interface {
	GetRate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error)
}

// FeeGateway 手续费试算
type FeeGateway interface {
	TradingFee(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error)
	ExchangeFee(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (decimal.Decimal, error)
}

// WalletGateway 交易结算路径的钱包资金变动入口
// 借记前的资金校验是唯一硬性闸门，校验失败不得产生任何余额变动
type WalletGateway interface {
	DebitForTrade(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) error
	CreditFromTrade(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) error
}
