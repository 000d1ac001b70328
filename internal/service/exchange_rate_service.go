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

// ExchangeRateService 汇率服务
//
// 与行情服务同样的内存+漂移模型（±0.5%），汇率保留6位小数。
type ExchangeRateService struct {
	logger *zap.Logger
	conf   config.ExchangeConf

	mu    sync.RWMutex
	rates map[string]*models.ExchangeRate

	cron *cron.Cron
	rand *rand.Rand
}

var _ RateGateway = (*ExchangeRateService)(nil)

// NewExchangeRateService 创建汇率服务并载入初始汇率
func NewExchangeRateService(conf *config.Config, logger *zap.Logger) *ExchangeRateService {
	s := &ExchangeRateService{
		logger: logger,
		conf:   conf.Exchange,
		rates:  make(map[string]*models.ExchangeRate),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.seed()
	return s
}

func (s *ExchangeRateService) seed() {
	type entry struct {
		from models.Currency
		to   models.Currency
		rate string
	}
	entries := []entry{
		{models.USD, models.EUR, "0.920000"},
		{models.USD, models.GBP, "0.790000"},
		{models.EUR, models.USD, "1.090000"},
		{models.EUR, models.GBP, "0.860000"},
		{models.GBP, models.USD, "1.270000"},
		{models.GBP, models.EUR, "1.160000"},
	}

	now := time.Now()
	for _, e := range entries {
		s.rates[rateKey(e.from, e.to)] = &models.ExchangeRate{
			FromCurrency: e.from,
			ToCurrency:   e.to,
			Rate:         decimal.RequireFromString(e.rate),
			LastUpdated:  now,
		}
	}

	s.logger.Info("exchange rate service initialized", zap.Int("rates", len(s.rates)))
}

func rateKey(from, to models.Currency) string {
	return string(from) + "_" + string(to)
}

// GetRate 查询汇率，相同货币返回1
func (s *ExchangeRateService) GetRate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("rate lookup aborted: %w", err)
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[rateKey(from, to)]
	if !ok {
		return decimal.Zero, xe.ErrUnknownCurrencyPair
	}
	return rate.Rate, nil
}

// ListRates 列出全部汇率
func (s *ExchangeRateService) ListRates(ctx context.Context) []models.ExchangeRate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ExchangeRate, 0, len(s.rates))
	for _, r := range s.rates {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FromCurrency != result[j].FromCurrency {
			return result[i].FromCurrency < result[j].FromCurrency
		}
		return result[i].ToCurrency < result[j].ToCurrency
	})
	return result
}

// GetRateDetail 查询汇率明细（含更新时间）
func (s *ExchangeRateService) GetRateDetail(ctx context.Context, from, to models.Currency) (models.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[rateKey(from, to)]
	if !ok {
		return models.ExchangeRate{}, xe.ErrUnknownCurrencyPair
	}
	return *rate, nil
}

// StartDriftWorker 启动后台汇率漂移任务
func (s *ExchangeRateService) StartDriftWorker() error {
	interval := s.conf.DriftIntervalSeconds
	if interval <= 0 {
		interval = 60
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", interval), s.drift)
	if err != nil {
		return fmt.Errorf("failed to schedule rate drift job: %w", err)
	}
	s.cron.Start()

	s.logger.Info("rate drift worker started", zap.Int("interval_seconds", interval))
	return nil
}

// StopDriftWorker 停止汇率漂移任务
func (s *ExchangeRateService) StopDriftWorker() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("rate drift worker stopped")
	}
}

func (s *ExchangeRateService) drift() {
	percent := s.conf.DriftPercent
	if percent <= 0 {
		percent = 0.5
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, rate := range s.rates {
		fluctuation := 1.0 + (s.rand.Float64()*2-1)*percent/100
		rate.Rate = money.RoundRate(rate.Rate.Mul(decimal.NewFromFloat(fluctuation)))
		rate.LastUpdated = now
	}

	s.logger.Debug("exchange rates drifted", zap.Int("count", len(s.rates)))
}
