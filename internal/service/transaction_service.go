package service

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/repo"
	"github.com/oklog/ulid/v2"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumerTransactions 流水投影的消费者标识
const ConsumerTransactions = "transactions"

var (
	tradeDescTemplate    = fasttemplate.New("{type} {quantity} shares of {symbol}", "{", "}")
	exchangeDescTemplate = fasttemplate.New("Exchange {from} to {to}", "{", "}")
)

// TransactionService 资金流水投影
//
// 消费钱包与交易两个主题的事件，生成只追加的流水账。
// 有关联实体的事件按 (类型, 关联实体ID) 去重，其余按 eventId 去重。
type TransactionService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TransactionRepo
	eventLog *repo.EventLogRepo
}

// NewTransactionService 创建流水投影服务
func NewTransactionService(db *gorm.DB, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		logger:          logger,
		Service:         orz.NewService(db),
		TransactionRepo: repo.NewTransactionRepo(db),
		eventLog:        repo.NewEventLogRepo(db),
	}
}

// HandleWalletEvent 钱包事件入口
// WalletUpdated 是余额快照不产生流水，其余资金事件各记一条
func (s *TransactionService) HandleWalletEvent(ctx context.Context, evt events.Event) error {
	switch e := evt.(type) {
	case *events.DepositCompleted:
		return s.record(ctx, e.EventID, &models.Transaction{
			UserID:      e.UserID,
			Type:        models.TxnTypeDeposit,
			Currency:    e.Currency,
			Amount:      e.Amount,
			Description: "Deposit",
		})
	case *events.WithdrawalCompleted:
		return s.record(ctx, e.EventID, &models.Transaction{
			UserID:      e.UserID,
			Type:        models.TxnTypeWithdrawal,
			Currency:    e.Currency,
			Amount:      e.Amount,
			Description: "Withdrawal",
		})
	case *events.CurrencyExchanged:
		description := exchangeDescTemplate.ExecuteString(map[string]interface{}{
			"from": string(e.FromCurrency),
			"to":   string(e.ToCurrency),
		})
		return s.record(ctx, e.EventID, &models.Transaction{
			UserID:      e.UserID,
			Type:        models.TxnTypeExchange,
			Currency:    e.FromCurrency,
			Amount:      e.FromAmount,
			Fees:        e.Fees,
			Description: description,
		})
	default:
		return nil
	}
}

// HandleTradingEvent 交易事件入口，只有成交产生流水
func (s *TransactionService) HandleTradingEvent(ctx context.Context, evt events.Event) error {
	trade, ok := evt.(*events.TradeCompleted)
	if !ok {
		return nil
	}

	txnType := models.TxnTypeBuy
	if trade.TradeType == models.TradeTypeSell {
		txnType = models.TxnTypeSell
	}
	description := tradeDescTemplate.ExecuteString(map[string]interface{}{
		"type":     string(trade.TradeType),
		"quantity": trade.Quantity.String(),
		"symbol":   trade.Symbol,
	})

	return s.Transaction(ctx, func(ctx context.Context) error {
		// 交易流水按 (类型, 交易ID) 去重，与Trade一一对应
		exists, err := s.TransactionRepo.ExistsByTypeAndRelatedEntity(ctx, txnType, trade.TradeID)
		if err != nil {
			return err
		}
		if exists {
			s.logger.Debug("duplicate trade event ignored",
				zap.String("event_id", trade.EventID),
				zap.String("trade_id", trade.TradeID))
			return nil
		}

		return s.TransactionRepo.Create(ctx, &models.Transaction{
			ID:              ulid.Make().String(),
			UserID:          trade.UserID,
			Type:            txnType,
			Currency:        trade.Currency,
			Amount:          trade.TotalAmount,
			Fees:            trade.Fees,
			RelatedEntityID: trade.TradeID,
			Description:     description,
		})
	})
}

// record 写入一条按 eventId 去重的流水
func (s *TransactionService) record(ctx context.Context, eventID string, txn *models.Transaction) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		fresh, err := s.eventLog.MarkProcessed(ctx, ConsumerTransactions, eventID)
		if err != nil {
			return err
		}
		if !fresh {
			s.logger.Debug("duplicate wallet event ignored", zap.String("event_id", eventID))
			return nil
		}

		txn.ID = ulid.Make().String()
		return s.TransactionRepo.Create(ctx, txn)
	})
}

// GetTransactions 查询用户流水，txnType 为空时返回全部类型
func (s *TransactionService) GetTransactions(ctx context.Context, userID string, txnType models.TransactionType, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.TransactionRepo.FindByUser(ctx, userID, txnType, limit)
}
