package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/xe"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// 内存库的每个连接都是独立库，限制为单连接
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		models.Trade{}, models.Holding{}, models.WalletBalance{},
		models.Transaction{}, models.FeeRule{},
		models.ProcessedEvent{}, models.DeadLetterEvent{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newTestBus() *events.Bus {
	return events.NewBus(zap.NewNop(), 16, 0, nil)
}

func testConfig() *config.Config {
	return &config.Config{}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// fakePricing 固定价格行情桩
type fakePricing struct {
	prices map[string]decimal.Decimal
}

func (f fakePricing) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, xe.ErrUnknownSymbol
	}
	return price, nil
}

// fakeRates 固定汇率桩
type fakeRates struct {
	rate decimal.Decimal
}

func (f fakeRates) GetRate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	return f.rate, nil
}

// collector 捕获总线投递的事件
type collector struct {
	ch chan events.Event
}

func newCollector(bus *events.Bus, topics ...string) *collector {
	c := &collector{ch: make(chan events.Event, 64)}
	for _, topic := range topics {
		bus.Subscribe(topic, "collector", func(ctx context.Context, evt events.Event) error {
			c.ch <- evt
			return nil
		})
	}
	return c
}

// drain 关闭总线并返回按类型分组的事件计数
func (c *collector) drain(bus *events.Bus) map[string]int {
	bus.Close()
	close(c.ch)
	counts := map[string]int{}
	for evt := range c.ch {
		counts[evt.Type()]++
	}
	return counts
}
