package events

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/laoyang/quanta/internal/models"
	"github.com/shopspring/decimal"
)

func TestEncodeAddsTypeDiscriminator(t *testing.T) {
	evt := &DepositCompleted{
		Base:     NewBase(),
		UserID:   "user-1",
		Currency: models.USD,
		Amount:   decimal.RequireFromString("100.00"),
	}

	data, err := Encode(evt)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var envelope map[string]interface{}
	if err := sonic.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope["@type"] != TypeDepositCompleted {
		t.Fatalf("@type = %v, want %s", envelope["@type"], TypeDepositCompleted)
	}
	if envelope["eventId"] != evt.EventID {
		t.Fatalf("eventId = %v, want %s", envelope["eventId"], evt.EventID)
	}
	if _, ok := envelope["timestamp"]; !ok {
		t.Fatal("missing timestamp in envelope")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	src := &TradeCompleted{
		Base:         NewBase(),
		TradeID:      "trade-1",
		UserID:       "user-1",
		Symbol:       "AAPL",
		TradeType:    models.TradeTypeBuy,
		Quantity:     decimal.RequireFromString("2.01"),
		PricePerUnit: decimal.RequireFromString("175.50"),
		Currency:     models.USD,
		TotalAmount:  decimal.RequireFromString("357.05"),
		Fees:         decimal.RequireFromString("4.03"),
	}

	data, err := Encode(src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, ok := decoded.(*TradeCompleted)
	if !ok {
		t.Fatalf("decoded type = %T, want *TradeCompleted", decoded)
	}
	if got.TradeID != src.TradeID || got.Symbol != src.Symbol {
		t.Fatalf("decoded mismatch: %+v", got)
	}
	if !got.Quantity.Equal(src.Quantity) || !got.TotalAmount.Equal(src.TotalAmount) {
		t.Fatalf("decoded amounts mismatch: %+v", got)
	}
	if got.ID() != src.EventID {
		t.Fatalf("eventId = %s, want %s", got.ID(), src.EventID)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"@type":"SomethingElse","eventId":"x"}`))
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if !strings.Contains(err.Error(), "unknown event type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewBaseGeneratesUniqueIDs(t *testing.T) {
	a, b := NewBase(), NewBase()
	if a.EventID == b.EventID {
		t.Fatal("expected unique event ids")
	}
	if a.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
