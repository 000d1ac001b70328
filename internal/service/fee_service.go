package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/money"
	"github.com/laoyang/quanta/internal/repo"
	"github.com/laoyang/quanta/internal/xe"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeeService 手续费计算服务
//
// fee = 固定费用 + 金额 × 费率（四舍五入到2位小数），手续费永不为负。
// 优先匹配证券/货币对的专属规则，未命中使用全局默认。
type FeeService struct {
	logger *zap.Logger

	*orz.Service
	*repo.FeeRuleRepo

	tradingFixed    decimal.Decimal
	tradingPercent  decimal.Decimal
	exchangeFixed   decimal.Decimal
	exchangePercent decimal.Decimal
}

var _ FeeGateway = (*FeeService)(nil)

// NewFeeService 创建手续费服务
func NewFeeService(db *gorm.DB, conf *config.Config, logger *zap.Logger) *FeeService {
	return &FeeService{
		logger:          logger,
		Service:         orz.NewService(db),
		FeeRuleRepo:     repo.NewFeeRuleRepo(db),
		tradingFixed:    parseFeeOr(conf.Fees.TradingFixedFee, "0.50"),
		tradingPercent:  parseFeeOr(conf.Fees.TradingPercentage, "0.01"),
		exchangeFixed:   parseFeeOr(conf.Fees.ExchangeFixedFee, "0.25"),
		exchangePercent: parseFeeOr(conf.Fees.ExchangePercentage, "0.005"),
	}
}

func parseFeeOr(s, fallback string) decimal.Decimal {
	if s == "" {
		return decimal.RequireFromString(fallback)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.RequireFromString(fallback)
	}
	return d
}

// TradingFee 计算交易手续费
func (s *FeeService) TradingFee(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, xe.ErrInvalidAmount
	}

	fixed, percent := s.tradingFixed, s.tradingPercent
	rule, err := s.FeeRuleRepo.FindTradingRule(ctx, symbol)
	if err == nil {
		fixed, percent = rule.FixedFee, rule.PercentageFee
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("failed to resolve trading fee rule for %s: %w", symbol, err)
	}

	fee := fixed.Add(money.Percentage(amount, percent))
	s.logger.Debug("trading fee calculated",
		zap.String("symbol", symbol),
		zap.String("amount", amount.String()),
		zap.String("fee", fee.String()))
	return fee, nil
}

// ExchangeFee 计算货币兑换手续费
func (s *FeeService) ExchangeFee(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, xe.ErrInvalidAmount
	}

	fixed, percent := s.exchangeFixed, s.exchangePercent
	rule, err := s.FeeRuleRepo.FindExchangeRule(ctx, from, to)
	if err == nil {
		fixed, percent = rule.FixedFee, rule.PercentageFee
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("failed to resolve exchange fee rule %s/%s: %w", from, to, err)
	}

	fee := fixed.Add(money.Percentage(amount, percent))
	s.logger.Debug("exchange fee calculated",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("amount", amount.String()),
		zap.String("fee", fee.String()))
	return fee, nil
}

// CreateTradingRule 创建证券交易手续费规则
func (s *FeeService) CreateTradingRule(ctx context.Context, symbol string, fixedFee, percentageFee decimal.Decimal) (*models.FeeRule, error) {
	if symbol == "" || fixedFee.IsNegative() || percentageFee.IsNegative() {
		return nil, xe.ErrInvalidParams
	}

	rule := &models.FeeRule{
		ID:            ulid.Make().String(),
		RuleType:      models.FeeRuleTrading,
		Symbol:        symbol,
		FixedFee:      fixedFee,
		PercentageFee: percentageFee,
	}
	if err := s.FeeRuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("trading fee rule created", zap.String("symbol", symbol))
	return rule, nil
}

// CreateExchangeRule 创建货币兑换手续费规则
func (s *FeeService) CreateExchangeRule(ctx context.Context, from, to models.Currency, fixedFee, percentageFee decimal.Decimal) (*models.FeeRule, error) {
	if fixedFee.IsNegative() || percentageFee.IsNegative() {
		return nil, xe.ErrInvalidParams
	}

	rule := &models.FeeRule{
		ID:            ulid.Make().String(),
		RuleType:      models.FeeRuleExchange,
		FromCurrency:  from,
		ToCurrency:    to,
		FixedFee:      fixedFee,
		PercentageFee: percentageFee,
	}
	if err := s.FeeRuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("exchange fee rule created",
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return rule, nil
}

// ListRules 列出全部手续费规则
func (s *FeeService) ListRules(ctx context.Context) ([]models.FeeRule, error) {
	return s.FeeRuleRepo.FindAll(ctx)
}
