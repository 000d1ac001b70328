package service

import (
	"context"
	"errors"
	"testing"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/xe"
	"go.uber.org/zap"
)

func TestTradingFeeDefaults(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	// 默认 0.50 + 1%
	fee, err := svc.TradingFee(ctx, "AAPL", mustDecimal(t, "1000"))
	if err != nil {
		t.Fatalf("TradingFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "10.50")) {
		t.Fatalf("fee = %s, want 10.50", fee)
	}

	// 0.50 + Round(351.00 × 1%) = 4.01
	fee, err = svc.TradingFee(ctx, "AAPL", mustDecimal(t, "351.00"))
	if err != nil {
		t.Fatalf("TradingFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "4.01")) {
		t.Fatalf("fee = %s, want 4.01", fee)
	}
}

func TestExchangeFeeDefaults(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	// 默认 0.25 + 0.5%
	fee, err := svc.ExchangeFee(ctx, models.USD, models.EUR, mustDecimal(t, "100"))
	if err != nil {
		t.Fatalf("ExchangeFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "0.75")) {
		t.Fatalf("fee = %s, want 0.75", fee)
	}
}

func TestTradingFeeCustomRuleTakesPriority(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.CreateTradingRule(ctx, "TSLA", mustDecimal(t, "1.00"), mustDecimal(t, "0.02")); err != nil {
		t.Fatalf("CreateTradingRule: %v", err)
	}

	fee, err := svc.TradingFee(ctx, "TSLA", mustDecimal(t, "100"))
	if err != nil {
		t.Fatalf("TradingFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "3.00")) {
		t.Fatalf("fee = %s, want 3.00", fee)
	}

	// 其他证券仍走默认
	fee, err = svc.TradingFee(ctx, "AAPL", mustDecimal(t, "100"))
	if err != nil {
		t.Fatalf("TradingFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "1.50")) {
		t.Fatalf("fee = %s, want 1.50", fee)
	}
}

func TestExchangeFeeCustomRule(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.CreateExchangeRule(ctx, models.USD, models.GBP, mustDecimal(t, "0.10"), mustDecimal(t, "0.001")); err != nil {
		t.Fatalf("CreateExchangeRule: %v", err)
	}

	fee, err := svc.ExchangeFee(ctx, models.USD, models.GBP, mustDecimal(t, "1000"))
	if err != nil {
		t.Fatalf("ExchangeFee: %v", err)
	}
	if !fee.Equal(mustDecimal(t, "1.10")) {
		t.Fatalf("fee = %s, want 1.10", fee)
	}
}

func TestFeeRejectsNegativeAmount(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.TradingFee(ctx, "AAPL", mustDecimal(t, "-1")); !errors.Is(err, xe.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.ExchangeFee(ctx, models.USD, models.EUR, mustDecimal(t, "-1")); !errors.Is(err, xe.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateRuleValidation(t *testing.T) {
	svc := NewFeeService(newTestDB(t), testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.CreateTradingRule(ctx, "", mustDecimal(t, "1"), mustDecimal(t, "0.01")); err == nil {
		t.Fatal("expected error for empty symbol")
	}
	if _, err := svc.CreateTradingRule(ctx, "AAPL", mustDecimal(t, "-1"), mustDecimal(t, "0.01")); err == nil {
		t.Fatal("expected error for negative fixed fee")
	}
}
