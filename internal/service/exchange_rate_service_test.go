package service

import (
	"context"
	"errors"
	"testing"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/xe"
	"go.uber.org/zap"
)

func TestRateSeedsAllPairs(t *testing.T) {
	svc := NewExchangeRateService(testConfig(), zap.NewNop())
	ctx := context.Background()

	rates := svc.ListRates(ctx)
	if len(rates) != 6 {
		t.Fatalf("rates = %d, want 6", len(rates))
	}

	rate, err := svc.GetRate(ctx, models.USD, models.EUR)
	if err != nil {
		t.Fatalf("GetRate: %v", err)
	}
	if !rate.Equal(mustDecimal(t, "0.920000")) {
		t.Fatalf("rate = %s, want 0.920000", rate)
	}
}

func TestSameCurrencyRateIsOne(t *testing.T) {
	svc := NewExchangeRateService(testConfig(), zap.NewNop())

	rate, err := svc.GetRate(context.Background(), models.USD, models.USD)
	if err != nil {
		t.Fatalf("GetRate: %v", err)
	}
	if !rate.Equal(mustDecimal(t, "1")) {
		t.Fatalf("rate = %s, want 1", rate)
	}
}

func TestUnknownCurrencyPair(t *testing.T) {
	svc := NewExchangeRateService(testConfig(), zap.NewNop())

	_, err := svc.GetRate(context.Background(), models.Currency("JPY"), models.USD)
	if !errors.Is(err, xe.ErrUnknownCurrencyPair) {
		t.Fatalf("err = %v, want ErrUnknownCurrencyPair", err)
	}
}

func TestRateDriftRoundsToSixDecimals(t *testing.T) {
	svc := NewExchangeRateService(testConfig(), zap.NewNop())
	ctx := context.Background()

	svc.drift()

	detail, err := svc.GetRateDetail(ctx, models.GBP, models.USD)
	if err != nil {
		t.Fatalf("GetRateDetail: %v", err)
	}
	if detail.Rate.Exponent() < -6 {
		t.Fatalf("rate not rounded to 6dp: %s", detail.Rate)
	}
	// 默认漂移幅度 ±0.5%
	low := mustDecimal(t, "1.27").Mul(mustDecimal(t, "0.99"))
	high := mustDecimal(t, "1.27").Mul(mustDecimal(t, "1.01"))
	if detail.Rate.LessThan(low) || detail.Rate.GreaterThan(high) {
		t.Fatalf("rate drifted out of bounds: %s", detail.Rate)
	}
}
