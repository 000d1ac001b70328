package service

import (
	"context"
	"testing"

	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"go.uber.org/zap"
)

func TestDepositEventRecordsTransaction(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.DepositCompleted{
		Base:     events.NewBase(),
		UserID:   "user-1",
		Currency: models.USD,
		Amount:   mustDecimal(t, "100.00"),
	}
	if err := svc.HandleWalletEvent(ctx, evt); err != nil {
		t.Fatalf("HandleWalletEvent: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", "", 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
	if txns[0].Type != models.TxnTypeDeposit || !txns[0].Amount.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("unexpected transaction: %+v", txns[0])
	}
	if txns[0].Description != "Deposit" {
		t.Fatalf("description = %q, want Deposit", txns[0].Description)
	}
}

func TestDuplicateWalletEventIgnored(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.WithdrawalCompleted{
		Base:     events.NewBase(),
		UserID:   "user-1",
		Currency: models.EUR,
		Amount:   mustDecimal(t, "25.00"),
	}
	if err := svc.HandleWalletEvent(ctx, evt); err != nil {
		t.Fatalf("HandleWalletEvent: %v", err)
	}
	if err := svc.HandleWalletEvent(ctx, evt); err != nil {
		t.Fatalf("HandleWalletEvent duplicate: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", "", 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
}

func TestExchangeEventDescription(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.CurrencyExchanged{
		Base:         events.NewBase(),
		UserID:       "user-1",
		FromCurrency: models.USD,
		ToCurrency:   models.EUR,
		FromAmount:   mustDecimal(t, "100.00"),
		ToAmount:     mustDecimal(t, "91.31"),
		ExchangeRate: mustDecimal(t, "0.920000"),
		Fees:         mustDecimal(t, "0.75"),
	}
	if err := svc.HandleWalletEvent(ctx, evt); err != nil {
		t.Fatalf("HandleWalletEvent: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", models.TxnTypeExchange, 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
	if txns[0].Description != "Exchange USD to EUR" {
		t.Fatalf("description = %q, want Exchange USD to EUR", txns[0].Description)
	}
	if !txns[0].Fees.Equal(mustDecimal(t, "0.75")) {
		t.Fatalf("fees = %s, want 0.75", txns[0].Fees)
	}
}

func TestWalletUpdatedProducesNoTransaction(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.WalletUpdated{
		Base:       events.NewBase(),
		UserID:     "user-1",
		Currency:   models.USD,
		NewBalance: mustDecimal(t, "100.00"),
	}
	if err := svc.HandleWalletEvent(ctx, evt); err != nil {
		t.Fatalf("HandleWalletEvent: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", "", 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("transactions = %d, want 0", len(txns))
	}
}

func TestTradeCompletedRecordsTransaction(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	evt := &events.TradeCompleted{
		Base:         events.NewBase(),
		TradeID:      "trade-1",
		UserID:       "user-1",
		Symbol:       "AAPL",
		TradeType:    models.TradeTypeBuy,
		Quantity:     mustDecimal(t, "2"),
		PricePerUnit: mustDecimal(t, "100.00"),
		Currency:     models.USD,
		TotalAmount:  mustDecimal(t, "202.50"),
		Fees:         mustDecimal(t, "2.50"),
	}
	if err := svc.HandleTradingEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradingEvent: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", models.TxnTypeBuy, 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
	if txns[0].RelatedEntityID != "trade-1" {
		t.Fatalf("relatedEntityId = %q, want trade-1", txns[0].RelatedEntityID)
	}
	if txns[0].Description != "BUY 2 shares of AAPL" {
		t.Fatalf("description = %q", txns[0].Description)
	}
}

func TestDuplicateTradeDeliveryDedupedByRelatedEntity(t *testing.T) {
	svc := NewTransactionService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	base := events.NewBase()
	evt := &events.TradeCompleted{
		Base:         base,
		TradeID:      "trade-2",
		UserID:       "user-1",
		Symbol:       "TSLA",
		TradeType:    models.TradeTypeSell,
		Quantity:     mustDecimal(t, "1"),
		PricePerUnit: mustDecimal(t, "245.30"),
		Currency:     models.USD,
		TotalAmount:  mustDecimal(t, "242.35"),
		Fees:         mustDecimal(t, "2.95"),
	}
	if err := svc.HandleTradingEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradingEvent: %v", err)
	}
	// 重复投递，eventId 相同与否都不应二次入账
	if err := svc.HandleTradingEvent(ctx, evt); err != nil {
		t.Fatalf("HandleTradingEvent duplicate: %v", err)
	}

	txns, err := svc.GetTransactions(ctx, "user-1", models.TxnTypeSell, 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
}
