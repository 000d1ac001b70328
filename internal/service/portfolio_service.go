package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/money"
	"github.com/laoyang/quanta/internal/repo"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumerPortfolio 持仓投影的消费者标识，幂等记录按此区分
const ConsumerPortfolio = "portfolio"

// PortfolioService 持仓投影
//
// 消费 TradeCompleted 事件维护 (用户, 证券) 持仓。投递语义为至少一次，
// 幂等判定与持仓变更在同一事务内提交，重复事件不会二次记账。
type PortfolioService struct {
	logger *zap.Logger

	*orz.Service
	*repo.HoldingRepo
	eventLog *repo.EventLogRepo

	locks *keyedMutex
}

// NewPortfolioService 创建持仓投影服务
func NewPortfolioService(db *gorm.DB, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{
		logger:      logger,
		Service:     orz.NewService(db),
		HoldingRepo: repo.NewHoldingRepo(db),
		eventLog:    repo.NewEventLogRepo(db),
		locks:       newKeyedMutex(),
	}
}

// HandleTradeEvent 交易事件入口，只处理 TradeCompleted，其余类型直接忽略
func (s *PortfolioService) HandleTradeEvent(ctx context.Context, evt events.Event) error {
	trade, ok := evt.(*events.TradeCompleted)
	if !ok {
		return nil
	}

	unlock := s.locks.Lock(trade.UserID + "|" + trade.Symbol)
	defer unlock()

	return s.Transaction(ctx, func(ctx context.Context) error {
		fresh, err := s.eventLog.MarkProcessed(ctx, ConsumerPortfolio, trade.EventID)
		if err != nil {
			return err
		}
		if !fresh {
			s.logger.Debug("duplicate trade event ignored",
				zap.String("event_id", trade.EventID),
				zap.String("trade_id", trade.TradeID))
			return nil
		}
		return s.apply(ctx, trade)
	})
}

func (s *PortfolioService) apply(ctx context.Context, trade *events.TradeCompleted) error {
	holding, err := s.HoldingRepo.FindByUserAndSymbol(ctx, trade.UserID, trade.Symbol)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		holding = models.Holding{
			ID:           ulid.Make().String(),
			UserID:       trade.UserID,
			Symbol:       trade.Symbol,
			Quantity:     decimal.Zero,
			AveragePrice: decimal.Zero,
			Currency:     trade.Currency,
			UpdatedAt:    time.Now(),
		}
		if err := s.HoldingRepo.Create(ctx, &holding); err != nil {
			return err
		}
	}

	switch trade.TradeType {
	case models.TradeTypeBuy:
		// 加权平均成本：(旧数量×旧均价 + 新数量×成交价) / 总数量
		newQuantity := holding.Quantity.Add(trade.Quantity)
		oldCost := holding.Quantity.Mul(holding.AveragePrice)
		newCost := trade.Quantity.Mul(trade.PricePerUnit)
		holding.AveragePrice = money.Round(oldCost.Add(newCost).DivRound(newQuantity, 10))
		holding.Quantity = newQuantity
	case models.TradeTypeSell:
		holding.Quantity = holding.Quantity.Sub(trade.Quantity)
		if holding.Quantity.IsNegative() {
			holding.Quantity = decimal.Zero
		}
		// 清仓后均价归零，下次建仓重新计算
		if holding.Quantity.IsZero() {
			holding.AveragePrice = decimal.Zero
		}
	default:
		return fmt.Errorf("unexpected trade type in event: %s", trade.TradeType)
	}

	holding.UpdatedAt = time.Now()
	if err := s.HoldingRepo.Save(ctx, &holding); err != nil {
		return err
	}

	s.logger.Info("holding updated",
		zap.String("user_id", trade.UserID),
		zap.String("symbol", trade.Symbol),
		zap.String("trade_type", string(trade.TradeType)),
		zap.String("quantity", holding.Quantity.String()),
		zap.String("average_price", holding.AveragePrice.String()))
	return nil
}

// GetPortfolio 查询用户全部持仓
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) ([]models.Holding, error) {
	return s.HoldingRepo.FindByUser(ctx, userID)
}
