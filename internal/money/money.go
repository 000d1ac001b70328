package money

import "github.com/shopspring/decimal"

// 金额与数量的统一舍入策略。
// 所有截断方向均向客户有利：买入数量向上取整、卖出所得向上取整，
// 按金额卖出的数量向下取整，平台不会因舍入占客户便宜。

const (
	moneyScale = 2
	rateScale  = 6

	// 除法中间精度，最终结果仍按业务策略二次舍入
	divisionScale = 10
)

// Round 金额舍入，保留2位小数，四舍五入
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// RoundQuantityUp 按金额买入时的数量舍入，保留2位小数，向上取整
func RoundQuantityUp(d decimal.Decimal) decimal.Decimal {
	return d.RoundUp(moneyScale)
}

// RoundQuantityDown 按金额卖出时的数量舍入，保留2位小数，向下取整
func RoundQuantityDown(d decimal.Decimal) decimal.Decimal {
	return d.RoundDown(moneyScale)
}

// RoundAmountUp 卖出所得金额舍入，保留2位小数，向上取整
func RoundAmountUp(d decimal.Decimal) decimal.Decimal {
	return d.RoundUp(moneyScale)
}

// RoundRate 汇率舍入，保留6位小数，四舍五入
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(rateScale)
}

// DivForQuantity 数量计算用除法，中间精度10位，四舍五入
func DivForQuantity(amount, price decimal.Decimal) decimal.Decimal {
	return amount.DivRound(price, divisionScale)
}

// Convert 按汇率换算金额
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// Percentage 计算金额的百分比部分
func Percentage(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}
