package service

import (
	"context"
	"errors"
	"fmt"
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

// WalletService 钱包资金变动引擎
//
// 所有余额变更遵循同一纪律：先校验、事务内提交、提交后发事件。
// 同一 (用户, 货币) 的并发操作以 keyedMutex 串行化，更新不会互相覆盖。
type WalletService struct {
	logger *zap.Logger

	*orz.Service
	*repo.WalletBalanceRepo

	rates RateGateway
	fees  FeeGateway
	bus   *events.Bus
	locks *keyedMutex

	quoteTimeout time.Duration
}

var _ WalletGateway = (*WalletService)(nil)

// NewWalletService 创建钱包服务
func NewWalletService(db *gorm.DB, conf *config.Config, rates RateGateway, fees FeeGateway, bus *events.Bus, logger *zap.Logger) *WalletService {
	timeout := time.Duration(conf.Trading.QuoteTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WalletService{
		logger:            logger,
		Service:           orz.NewService(db),
		WalletBalanceRepo: repo.NewWalletBalanceRepo(db),
		rates:             rates,
		fees:              fees,
		bus:               bus,
		locks:             newKeyedMutex(),
		quoteTimeout:      timeout,
	}
}

// ExchangeResult 货币兑换结果
type ExchangeResult struct {
	FromBalance     *models.WalletBalance `json:"fromBalance"`
	ToBalance       *models.WalletBalance `json:"toBalance"`
	ConvertedAmount decimal.Decimal       `json:"convertedAmount"`
	ExchangeRate    decimal.Decimal       `json:"exchangeRate"`
	Fee             decimal.Decimal       `json:"fee"`
}

func balanceKey(userID string, currency models.Currency) string {
	return userID + "|" + string(currency)
}

// Deposit 存入资金，余额记录在首次入金时懒创建
func (s *WalletService) Deposit(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) (*models.WalletBalance, error) {
	if !amount.IsPositive() {
		return nil, xe.ErrInvalidAmount
	}

	unlock := s.locks.Lock(balanceKey(userID, currency))
	defer unlock()

	var balance *models.WalletBalance
	err := s.Transaction(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.getOrCreateBalance(ctx, userID, currency)
		if err != nil {
			return err
		}
		balance.Balance = balance.Balance.Add(amount)
		balance.UpdatedAt = time.Now()
		return s.WalletBalanceRepo.Save(ctx, balance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit completed",
		zap.String("user_id", userID),
		zap.String("currency", string(currency)),
		zap.String("amount", amount.String()),
		zap.String("new_balance", balance.Balance.String()))

	s.bus.Publish(events.TopicWallet, &events.DepositCompleted{
		Base:     events.NewBase(),
		UserID:   userID,
		Currency: currency,
		Amount:   amount,
	})
	s.publishWalletUpdated(userID, currency, balance.Balance)

	return balance, nil
}

// Withdraw 提取资金，余额不足直接拒绝且不产生任何变动
func (s *WalletService) Withdraw(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) (*models.WalletBalance, error) {
	if !amount.IsPositive() {
		return nil, xe.ErrInvalidAmount
	}

	unlock := s.locks.Lock(balanceKey(userID, currency))
	defer unlock()

	var balance *models.WalletBalance
	err := s.Transaction(ctx, func(ctx context.Context) error {
		m, err := s.WalletBalanceRepo.FindByUserAndCurrency(ctx, userID, currency)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xe.ErrInsufficientFunds
			}
			return err
		}
		if m.Balance.LessThan(amount) {
			return xe.ErrInsufficientFunds
		}

		m.Balance = m.Balance.Sub(amount)
		m.UpdatedAt = time.Now()
		balance = &m
		return s.WalletBalanceRepo.Save(ctx, balance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal completed",
		zap.String("user_id", userID),
		zap.String("currency", string(currency)),
		zap.String("amount", amount.String()),
		zap.String("new_balance", balance.Balance.String()))

	s.bus.Publish(events.TopicWallet, &events.WithdrawalCompleted{
		Base:     events.NewBase(),
		UserID:   userID,
		Currency: currency,
		Amount:   amount,
	})
	s.publishWalletUpdated(userID, currency, balance.Balance)

	return balance, nil
}

// Exchange 货币兑换
// 手续费从源货币侧吸收：源账户扣除全额，目标账户入账 (金额−手续费)×汇率
func (s *WalletService) Exchange(ctx context.Context, userID string, from, to models.Currency, amount decimal.Decimal) (*ExchangeResult, error) {
	if !amount.IsPositive() {
		return nil, xe.ErrInvalidAmount
	}
	if from == to {
		return nil, xe.ErrSameCurrency
	}

	quoteCtx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()
	rate, err := s.rates.GetRate(quoteCtx, from, to)
	if err != nil {
		return nil, err
	}
	fee, err := s.fees.ExchangeFee(quoteCtx, from, to, amount)
	if err != nil {
		return nil, err
	}

	amountAfterFee := amount.Sub(fee)
	if !amountAfterFee.IsPositive() {
		return nil, xe.ErrAmountTooSmall
	}
	convertedAmount := money.Convert(amountAfterFee, rate)

	// 固定按 key 顺序加锁，避免对向兑换互相死锁
	firstKey, secondKey := balanceKey(userID, from), balanceKey(userID, to)
	if secondKey < firstKey {
		firstKey, secondKey = secondKey, firstKey
	}
	unlockFirst := s.locks.Lock(firstKey)
	defer unlockFirst()
	unlockSecond := s.locks.Lock(secondKey)
	defer unlockSecond()

	var fromBalance, toBalance *models.WalletBalance
	err = s.Transaction(ctx, func(ctx context.Context) error {
		m, err := s.WalletBalanceRepo.FindByUserAndCurrency(ctx, userID, from)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xe.ErrInsufficientFunds
			}
			return err
		}
		if m.Balance.LessThan(amount) {
			return xe.ErrInsufficientFunds
		}

		m.Balance = m.Balance.Sub(amount)
		m.UpdatedAt = time.Now()
		fromBalance = &m
		if err := s.WalletBalanceRepo.Save(ctx, fromBalance); err != nil {
			return err
		}

		toBalance, err = s.getOrCreateBalance(ctx, userID, to)
		if err != nil {
			return err
		}
		toBalance.Balance = toBalance.Balance.Add(convertedAmount)
		toBalance.UpdatedAt = time.Now()
		return s.WalletBalanceRepo.Save(ctx, toBalance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("currency exchanged",
		zap.String("user_id", userID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("amount", amount.String()),
		zap.String("converted", convertedAmount.String()),
		zap.String("rate", rate.String()),
		zap.String("fee", fee.String()))

	s.bus.Publish(events.TopicWallet, &events.CurrencyExchanged{
		Base:         events.NewBase(),
		UserID:       userID,
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		ToAmount:     convertedAmount,
		ExchangeRate: rate,
		Fees:         fee,
	})
	s.publishWalletUpdated(userID, from, fromBalance.Balance)
	s.publishWalletUpdated(userID, to, toBalance.Balance)

	return &ExchangeResult{
		FromBalance:     fromBalance,
		ToBalance:       toBalance,
		ConvertedAmount: convertedAmount,
		ExchangeRate:    rate,
		Fee:             fee,
	}, nil
}

// DebitForTrade 交易买入侧的资金扣减，资金校验是提交前的唯一硬性闸门
func (s *WalletService) DebitForTrade(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return xe.ErrInvalidAmount
	}

	unlock := s.locks.Lock(balanceKey(userID, currency))
	defer unlock()

	var balance *models.WalletBalance
	err := s.Transaction(ctx, func(ctx context.Context) error {
		m, err := s.WalletBalanceRepo.FindByUserAndCurrency(ctx, userID, currency)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xe.ErrInsufficientFunds
			}
			return err
		}
		if m.Balance.LessThan(amount) {
			return xe.ErrInsufficientFunds
		}

		m.Balance = m.Balance.Sub(amount)
		m.UpdatedAt = time.Now()
		balance = &m
		return s.WalletBalanceRepo.Save(ctx, balance)
	})
	if err != nil {
		return err
	}

	s.publishWalletUpdated(userID, currency, balance.Balance)
	return nil
}

// CreditFromTrade 交易卖出侧的资金入账
func (s *WalletService) CreditFromTrade(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return xe.ErrInvalidAmount
	}

	unlock := s.locks.Lock(balanceKey(userID, currency))
	defer unlock()

	var balance *models.WalletBalance
	err := s.Transaction(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.getOrCreateBalance(ctx, userID, currency)
		if err != nil {
			return err
		}
		balance.Balance = balance.Balance.Add(amount)
		balance.UpdatedAt = time.Now()
		return s.WalletBalanceRepo.Save(ctx, balance)
	})
	if err != nil {
		return err
	}

	s.publishWalletUpdated(userID, currency, balance.Balance)
	return nil
}

// GetBalances 查询用户的全部余额
func (s *WalletService) GetBalances(ctx context.Context, userID string) ([]models.WalletBalance, error) {
	return s.WalletBalanceRepo.FindByUser(ctx, userID)
}

// GetBalance 查询用户某货币余额，无记录视为零
func (s *WalletService) GetBalance(ctx context.Context, userID string, currency models.Currency) (decimal.Decimal, error) {
	m, err := s.WalletBalanceRepo.FindByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return m.Balance, nil
}

func (s *WalletService) getOrCreateBalance(ctx context.Context, userID string, currency models.Currency) (*models.WalletBalance, error) {
	m, err := s.WalletBalanceRepo.FindByUserAndCurrency(ctx, userID, currency)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load balance %s/%s: %w", userID, currency, err)
	}

	balance := &models.WalletBalance{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Currency:  currency,
		Balance:   decimal.Zero,
		UpdatedAt: time.Now(),
	}
	if err := s.WalletBalanceRepo.Create(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *WalletService) publishWalletUpdated(userID string, currency models.Currency, newBalance decimal.Decimal) {
	s.bus.Publish(events.TopicWallet, &events.WalletUpdated{
		Base:       events.NewBase(),
		UserID:     userID,
		Currency:   currency,
		NewBalance: newBalance,
	})
}
