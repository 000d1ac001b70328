package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/money"
	"github.com/laoyang/quanta/internal/xe"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService 证券行情服务
//
// 行情数据保存在内存中并按固定周期随机漂移（±2%），
// 读取方总是拿到最新发布值，漂移任务不阻塞请求路径。
type PricingService struct {
	logger *zap.Logger
	conf   config.PricingConf

	mu         sync.RWMutex
	securities map[string]*models.Security

	cron *cron.Cron
	rand *rand.Rand
}

var _ PricingGateway = (*PricingService)(nil)

// NewPricingService 创建行情服务并载入初始证券
func NewPricingService(conf *config.Config, logger *zap.Logger) *PricingService {
	s := &PricingService{
		logger:     logger,
		conf:       conf.Pricing,
		securities: make(map[string]*models.Security),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.seed()
	return s
}

func (s *PricingService) seed() {
	type entry struct {
		symbol string
		name   string
		typ    models.SecurityType
		price  string
	}
	entries := []entry{
		{"AAPL", "Apple Inc.", models.SecurityStock, "175.50"},
		{"GOOGL", "Alphabet Inc.", models.SecurityStock, "140.25"},
		{"MSFT", "Microsoft Corp.", models.SecurityStock, "380.00"},
		{"AMZN", "Amazon.com Inc.", models.SecurityStock, "155.75"},
		{"TSLA", "Tesla Inc.", models.SecurityStock, "245.30"},
		{"META", "Meta Platforms", models.SecurityStock, "485.00"},
		{"NVDA", "NVIDIA Corp.", models.SecurityStock, "495.25"},
		{"JPM", "JPMorgan Chase", models.SecurityStock, "180.50"},
		{"JNJ", "Johnson & Johnson", models.SecurityStock, "160.00"},
		{"V", "Visa Inc.", models.SecurityStock, "275.75"},
		{"SPY", "S&P 500 ETF", models.SecurityStockIndex, "480.00"},
		{"QQQ", "NASDAQ 100 ETF", models.SecurityStockIndex, "410.50"},
		{"DIA", "Dow Jones ETF", models.SecurityStockIndex, "380.25"},
		{"IWM", "Russell 2000 ETF", models.SecurityStockIndex, "198.75"},
		{"VTI", "Total Market ETF", models.SecurityStockIndex, "245.00"},
		{"AGG", "US Aggregate Bond", models.SecurityBondIndex, "102.50"},
		{"TLT", "20+ Year Treasury", models.SecurityBondIndex, "95.75"},
		{"BND", "Total Bond Market", models.SecurityBondIndex, "78.25"},
		{"LQD", "Investment Grade Corp", models.SecurityBondIndex, "110.00"},
		{"HYG", "High Yield Corp", models.SecurityBondIndex, "82.50"},
	}

	now := time.Now()
	for _, e := range entries {
		s.securities[e.symbol] = &models.Security{
			Symbol:       e.symbol,
			Name:         e.name,
			Type:         e.typ,
			CurrentPrice: decimal.RequireFromString(e.price),
			LastUpdated:  now,
		}
	}

	s.logger.Info("pricing service initialized", zap.Int("securities", len(s.securities)))
}

// GetPrice 查询证券现价
func (s *PricingService) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("pricing lookup aborted: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	security, ok := s.securities[symbol]
	if !ok {
		return decimal.Zero, xe.ErrUnknownSymbol
	}
	return security.CurrentPrice, nil
}

// ListSecurities 列出全部证券行情
func (s *PricingService) ListSecurities(ctx context.Context) []models.Security {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Security, 0, len(s.securities))
	for _, sec := range s.securities {
		result = append(result, *sec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Symbol < result[j].Symbol })
	return result
}

// GetSecurity 查询单个证券
func (s *PricingService) GetSecurity(ctx context.Context, symbol string) (models.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	security, ok := s.securities[symbol]
	if !ok {
		return models.Security{}, xe.ErrUnknownSymbol
	}
	return *security, nil
}

// StartDriftWorker 启动后台价格漂移任务
func (s *PricingService) StartDriftWorker() error {
	interval := s.conf.DriftIntervalSeconds
	if interval <= 0 {
		interval = 30
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", interval), s.drift)
	if err != nil {
		return fmt.Errorf("failed to schedule price drift job: %w", err)
	}
	s.cron.Start()

	s.logger.Info("price drift worker started", zap.Int("interval_seconds", interval))
	return nil
}

// StopDriftWorker 停止价格漂移任务
func (s *PricingService) StopDriftWorker() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("price drift worker stopped")
	}
}

func (s *PricingService) drift() {
	percent := s.conf.DriftPercent
	if percent <= 0 {
		percent = 2
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, security := range s.securities {
		// 每次在 ±percent% 范围内随机波动
		fluctuation := 1.0 + (s.rand.Float64()*2-1)*percent/100
		security.CurrentPrice = money.Round(security.CurrentPrice.Mul(decimal.NewFromFloat(fluctuation)))
		security.LastUpdated = now
	}

	s.logger.Debug("security prices drifted", zap.Int("count", len(s.securities)))
}
