package service

import (
	"context"
	"errors"
	"testing"

	"github.com/laoyang/quanta/internal/xe"
	"go.uber.org/zap"
)

func TestPricingSeedsSecurities(t *testing.T) {
	svc := NewPricingService(testConfig(), zap.NewNop())
	ctx := context.Background()

	securities := svc.ListSecurities(ctx)
	if len(securities) != 20 {
		t.Fatalf("securities = %d, want 20", len(securities))
	}

	price, err := svc.GetPrice(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if !price.Equal(mustDecimal(t, "175.50")) {
		t.Fatalf("price = %s, want 175.50", price)
	}
}

func TestGetPriceUnknownSymbol(t *testing.T) {
	svc := NewPricingService(testConfig(), zap.NewNop())

	_, err := svc.GetPrice(context.Background(), "NOPE")
	if !errors.Is(err, xe.ErrUnknownSymbol) {
		t.Fatalf("err = %v, want ErrUnknownSymbol", err)
	}
}

func TestPriceDriftStaysWithinBounds(t *testing.T) {
	svc := NewPricingService(testConfig(), zap.NewNop())
	ctx := context.Background()

	before, err := svc.GetSecurity(ctx, "MSFT")
	if err != nil {
		t.Fatalf("GetSecurity: %v", err)
	}

	svc.drift()

	after, err := svc.GetSecurity(ctx, "MSFT")
	if err != nil {
		t.Fatalf("GetSecurity: %v", err)
	}

	// 默认漂移幅度 ±2%
	low := before.CurrentPrice.Mul(mustDecimal(t, "0.97"))
	high := before.CurrentPrice.Mul(mustDecimal(t, "1.03"))
	if after.CurrentPrice.LessThan(low) || after.CurrentPrice.GreaterThan(high) {
		t.Fatalf("price drifted out of bounds: %s -> %s", before.CurrentPrice, after.CurrentPrice)
	}
	if after.CurrentPrice.Exponent() < -2 {
		t.Fatalf("price not rounded to 2dp: %s", after.CurrentPrice)
	}
	if !after.LastUpdated.After(before.LastUpdated) && !after.LastUpdated.Equal(before.LastUpdated) {
		t.Fatal("lastUpdated not refreshed")
	}
}

func TestGetPriceRespectsCancelledContext(t *testing.T) {
	svc := NewPricingService(testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetPrice(ctx, "AAPL"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
