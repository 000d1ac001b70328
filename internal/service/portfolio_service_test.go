package service

import (
	"context"
	"testing"

	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func tradeEvent(t *testing.T, tradeType models.TradeType, quantity, price string) *events.TradeCompleted {
	t.Helper()
	return &events.TradeCompleted{
		Base:         events.NewBase(),
		TradeID:      events.NewBase().EventID,
		UserID:       "user-1",
		Symbol:       "AAPL",
		TradeType:    tradeType,
		Quantity:     mustDecimal(t, quantity),
		PricePerUnit: mustDecimal(t, price),
		Currency:     models.USD,
		TotalAmount:  mustDecimal(t, quantity).Mul(mustDecimal(t, price)),
	}
}

func holdingOf(t *testing.T, svc *PortfolioService, userID, symbol string) models.Holding {
	t.Helper()
	holdings, err := svc.GetPortfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h
		}
	}
	t.Fatalf("no holding for %s/%s", userID, symbol)
	return models.Holding{}
}

func TestBuyCreatesHoldingWithWeightedAverage(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeBuy, "10", "100.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}
	h := holdingOf(t, svc, "user-1", "AAPL")
	if !h.Quantity.Equal(mustDecimal(t, "10")) || !h.AveragePrice.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("holding = %s @ %s, want 10 @ 100.00", h.Quantity, h.AveragePrice)
	}

	// (10×100 + 10×200) / 20 = 150
	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeBuy, "10", "200.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}
	h = holdingOf(t, svc, "user-1", "AAPL")
	if !h.Quantity.Equal(mustDecimal(t, "20")) || !h.AveragePrice.Equal(mustDecimal(t, "150.00")) {
		t.Fatalf("holding = %s @ %s, want 20 @ 150.00", h.Quantity, h.AveragePrice)
	}
}

func TestSellReducesQuantityKeepsAverage(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeBuy, "20", "150.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}
	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeSell, "5", "180.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}

	h := holdingOf(t, svc, "user-1", "AAPL")
	if !h.Quantity.Equal(mustDecimal(t, "15")) {
		t.Fatalf("quantity = %s, want 15", h.Quantity)
	}
	// 卖出不改变均价
	if !h.AveragePrice.Equal(mustDecimal(t, "150.00")) {
		t.Fatalf("average = %s, want 150.00", h.AveragePrice)
	}
}

func TestSellToZeroResetsAverage(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeBuy, "5", "100.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}
	if err := svc.HandleTradeEvent(ctx, tradeEvent(t, models.TradeTypeSell, "5", "120.00")); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}

	h := holdingOf(t, svc, "user-1", "AAPL")
	if !h.Quantity.IsZero() {
		t.Fatalf("quantity = %s, want 0", h.Quantity)
	}
	if !h.AveragePrice.Equal(decimal.Zero) {
		t.Fatalf("average = %s, want 0", h.AveragePrice)
	}
}

func TestDuplicateTradeEventIgnored(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := tradeEvent(t, models.TradeTypeBuy, "10", "100.00")
	if err := svc.HandleTradeEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}
	// 同一事件重复投递
	if err := svc.HandleTradeEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradeEvent duplicate: %v", err)
	}

	h := holdingOf(t, svc, "user-1", "AAPL")
	if !h.Quantity.Equal(mustDecimal(t, "10")) {
		t.Fatalf("quantity = %s, want 10", h.Quantity)
	}
}

func TestNonTradeEventsIgnored(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.TradeFailed{Base: events.NewBase(), TradeID: "t1", UserID: "user-1", Reason: "x"}
	if err := svc.HandleTradeEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradeEvent: %v", err)
	}

	holdings, err := svc.GetPortfolio(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if len(holdings) != 0 {
		t.Fatalf("holdings = %d, want 0", len(holdings))
	}
}
