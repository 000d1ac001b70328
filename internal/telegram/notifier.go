package telegram

import (
	"context"
	"fmt"

	"github.com/laoyang/quanta/internal/events"
	"go.uber.org/zap"
)

// Notifier 把结算事件推送到Telegram频道
// 订阅为尽力而为：推送失败只记日志，不影响结算主流程
type Notifier struct {
	logger *zap.Logger
	tg     *Telegram
	chatID string
}

// NewNotifier 创建事件推送器
func NewNotifier(tg *Telegram, chatID string, logger *zap.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		tg:     tg,
		chatID: chatID,
	}
}

// HandleEvent 事件入口，未覆盖的事件类型静默忽略
func (n *Notifier) HandleEvent(ctx context.Context, evt events.Event) error {
	var msg string
	switch e := evt.(type) {
	case *events.TradeCompleted:
		msg = fmt.Sprintf("✅ *%s* %s %s @ %s %s\n成交额: %s  手续费: %s",
			e.TradeType, e.Quantity, e.Symbol, e.PricePerUnit, e.Currency, e.TotalAmount, e.Fees)
	case *events.TradeFailed:
		msg = fmt.Sprintf("❌ 交易失败 `%s`\n原因: %s", e.TradeID, e.Reason)
	case *events.CurrencyExchanged:
		msg = fmt.Sprintf("💱 兑换 %s %s → %s %s\n汇率: %s  手续费: %s",
			e.FromAmount, e.FromCurrency, e.ToAmount, e.ToCurrency, e.ExchangeRate, e.Fees)
	case *events.DepositCompleted:
		msg = fmt.Sprintf("💰 入金 %s %s", e.Amount, e.Currency)
	case *events.WithdrawalCompleted:
		msg = fmt.Sprintf("🏧 出金 %s %s", e.Amount, e.Currency)
	default:
		return nil
	}

	if err := n.tg.Notify(n.chatID, msg); err != nil {
		n.logger.Warn("failed to push telegram notification",
			zap.String("event_type", evt.Type()),
			zap.String("event_id", evt.ID()),
			zap.Error(err))
		return err
	}
	return nil
}
