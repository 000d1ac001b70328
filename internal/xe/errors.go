package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams = orz.NewError(10400, "参数无效")

	ErrInvalidAmount       = orz.NewError(20001, "金额必须大于零")
	ErrInsufficientFunds   = orz.NewError(20002, "余额不足")
	ErrUnknownSymbol       = orz.NewError(20003, "证券代码不存在")
	ErrUnknownCurrencyPair = orz.NewError(20004, "不支持的货币对")
	ErrUnknownCurrency     = orz.NewError(20005, "不支持的货币")
	ErrAmountTooSmall      = orz.NewError(20006, "金额不足以覆盖手续费")
	ErrQuoteUnavailable    = orz.NewError(20007, "行情服务暂不可用")
	ErrSameCurrency        = orz.NewError(20008, "源货币与目标货币相同")
)
