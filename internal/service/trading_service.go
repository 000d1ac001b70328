package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/money"
	"github.com/laoyang/quanta/internal/repo"
	"github.com/laoyang/quanta/internal/xe"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TradingService 交易执行引擎
//
// 执行路径：取价 → 定数量 → 算费 → 资金变动 → 落库 → 发事件。
// 资金不足产生 FAILED 交易记录和 TradeFailed 事件；其余校验失败
// 在资金变动前拒绝，不留任何痕迹。
type TradingService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TradeRepo

	pricing PricingGateway
	fees    FeeGateway
	wallet  WalletGateway
	bus     *events.Bus

	quoteTimeout time.Duration
}

// TradeOrder 交易请求
// BY_AMOUNT 时 Value 为金额，BY_QUANTITY 时 Value 为数量
type TradeOrder struct {
	UserID    string
	Symbol    string
	OrderType models.OrderType
	Value     decimal.Decimal
	Currency  models.Currency
}

// NewTradingService 创建交易服务
func NewTradingService(db *gorm.DB, conf *config.Config, pricing PricingGateway, fees FeeGateway, wallet WalletGateway, bus *events.Bus, logger *zap.Logger) *TradingService {
	timeout := time.Duration(conf.Trading.QuoteTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TradingService{
		logger:       logger,
		Service:      orz.NewService(db),
		TradeRepo:    repo.NewTradeRepo(db),
		pricing:      pricing,
		fees:         fees,
		wallet:       wallet,
		bus:          bus,
		quoteTimeout: timeout,
	}
}

// ExecuteBuy 执行买入
//
// 按金额买入时先用下单金额预估手续费并从金额中扣除，余下部分折算数量
// 并向上取整到2位小数；最终手续费按成交额重算，总扣款 = 成交额 + 手续费。
func (s *TradingService) ExecuteBuy(ctx context.Context, order TradeOrder) (*models.Trade, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	price, err := s.quotePrice(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	var quantity decimal.Decimal
	if order.OrderType == models.OrderByAmount {
		estimatedFee, err := s.quoteTradingFee(ctx, order.Symbol, order.Value)
		if err != nil {
			return nil, err
		}
		amountAfterFee := order.Value.Sub(estimatedFee)
		if !amountAfterFee.IsPositive() {
			return nil, xe.ErrAmountTooSmall
		}
		quantity = money.RoundQuantityUp(money.DivForQuantity(amountAfterFee, price))
	} else {
		quantity = order.Value
	}

	grossAmount := quantity.Mul(price)
	fee, err := s.quoteTradingFee(ctx, order.Symbol, grossAmount)
	if err != nil {
		return nil, err
	}
	totalAmount := money.Round(grossAmount.Add(fee))

	if err := s.wallet.DebitForTrade(ctx, order.UserID, order.Currency, totalAmount); err != nil {
		if errors.Is(err, xe.ErrInsufficientFunds) {
			return s.recordFailure(ctx, order, quantity, price, totalAmount, fee, err)
		}
		return nil, err
	}

	trade, err := s.recordCompletion(ctx, order, models.TradeTypeBuy, quantity, price, totalAmount, fee)
	if err != nil {
		return nil, err
	}

	s.logger.Info("buy trade completed",
		zap.String("trade_id", trade.ID),
		zap.String("user_id", order.UserID),
		zap.String("symbol", order.Symbol),
		zap.String("quantity", quantity.String()),
		zap.String("total", totalAmount.String()))
	return trade, nil
}

// ExecuteSell 执行卖出
//
// 按金额卖出时数量向下取整到2位小数，入账所得 = 成交额 − 手续费，
// 向上取整到2位小数。与原始账本一致，卖出不校验持仓。
func (s *TradingService) ExecuteSell(ctx context.Context, order TradeOrder) (*models.Trade, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	price, err := s.quotePrice(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	var quantity decimal.Decimal
	if order.OrderType == models.OrderByAmount {
		quantity = money.RoundQuantityDown(money.DivForQuantity(order.Value, price))
		if !quantity.IsPositive() {
			return nil, xe.ErrAmountTooSmall
		}
	} else {
		quantity = order.Value
	}

	grossAmount := quantity.Mul(price)
	fee, err := s.quoteTradingFee(ctx, order.Symbol, grossAmount)
	if err != nil {
		return nil, err
	}
	proceeds := money.RoundAmountUp(grossAmount.Sub(fee))
	if !proceeds.IsPositive() {
		return nil, xe.ErrAmountTooSmall
	}

	if err := s.wallet.CreditFromTrade(ctx, order.UserID, order.Currency, proceeds); err != nil {
		return nil, err
	}

	trade, err := s.recordCompletion(ctx, order, models.TradeTypeSell, quantity, price, proceeds, fee)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sell trade completed",
		zap.String("trade_id", trade.ID),
		zap.String("user_id", order.UserID),
		zap.String("symbol", order.Symbol),
		zap.String("quantity", quantity.String()),
		zap.String("proceeds", proceeds.String()))
	return trade, nil
}

// GetTrades 查询用户最近交易
func (s *TradingService) GetTrades(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.TradeRepo.FindRecentByUser(ctx, userID, limit)
}

func validateOrder(order TradeOrder) error {
	if order.UserID == "" || order.Symbol == "" {
		return xe.ErrInvalidParams
	}
	if order.OrderType != models.OrderByAmount && order.OrderType != models.OrderByQuantity {
		return xe.ErrInvalidParams
	}
	if !order.Value.IsPositive() {
		return xe.ErrInvalidAmount
	}
	return nil
}

// quotePrice 取价带独立超时，行情不可用不能拖死整个下单请求
func (s *TradingService) quotePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quoteCtx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()

	price, err := s.pricing.GetPrice(quoteCtx, symbol)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return decimal.Zero, xe.ErrQuoteUnavailable
		}
		return decimal.Zero, err
	}
	return price, nil
}

func (s *TradingService) quoteTradingFee(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error) {
	quoteCtx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()

	fee, err := s.fees.TradingFee(quoteCtx, symbol, amount)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return decimal.Zero, xe.ErrQuoteUnavailable
		}
		return decimal.Zero, err
	}
	return fee, nil
}

func (s *TradingService) recordCompletion(ctx context.Context, order TradeOrder, tradeType models.TradeType, quantity, price, totalAmount, fee decimal.Decimal) (*models.Trade, error) {
	now := time.Now()
	trade := &models.Trade{
		ID:           ulid.Make().String(),
		UserID:       order.UserID,
		Symbol:       order.Symbol,
		TradeType:    tradeType,
		OrderType:    order.OrderType,
		Quantity:     quantity,
		PricePerUnit: price,
		Currency:     order.Currency,
		TotalAmount:  totalAmount,
		Fees:         fee,
		Status:       models.TradeStatusCompleted,
		CreatedAt:    now,
		CompletedAt:  &now,
	}
	if err := s.TradeRepo.Create(ctx, trade); err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicTrading, &events.TradeCompleted{
		Base:         events.NewBase(),
		TradeID:      trade.ID,
		UserID:       trade.UserID,
		Symbol:       trade.Symbol,
		TradeType:    trade.TradeType,
		Quantity:     trade.Quantity,
		PricePerUnit: trade.PricePerUnit,
		Currency:     trade.Currency,
		TotalAmount:  trade.TotalAmount,
		Fees:         trade.Fees,
	})
	return trade, nil
}

// recordFailure 落库 FAILED 记录后仍向调用方返回原始错误
func (s *TradingService) recordFailure(ctx context.Context, order TradeOrder, quantity, price, totalAmount, fee decimal.Decimal, cause error) (*models.Trade, error) {
	trade := &models.Trade{
		ID:            ulid.Make().String(),
		UserID:        order.UserID,
		Symbol:        order.Symbol,
		TradeType:     models.TradeTypeBuy,
		OrderType:     order.OrderType,
		Quantity:      quantity,
		PricePerUnit:  price,
		Currency:      order.Currency,
		TotalAmount:   totalAmount,
		Fees:          fee,
		Status:        models.TradeStatusFailed,
		FailureReason: cause.Error(),
		CreatedAt:     time.Now(),
	}
	if err := s.TradeRepo.Create(ctx, trade); err != nil {
		return nil, err
	}

	s.logger.Warn("buy trade failed",
		zap.String("trade_id", trade.ID),
		zap.String("user_id", order.UserID),
		zap.String("symbol", order.Symbol),
		zap.String("total", totalAmount.String()),
		zap.Error(cause))

	s.bus.Publish(events.TopicTrading, &events.TradeFailed{
		Base:    events.NewBase(),
		TradeID: trade.ID,
		UserID:  trade.UserID,
		Reason:  cause.Error(),
	})
	return trade, cause
}
