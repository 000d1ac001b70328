package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"-1.005", "-1.01"},
		{"355.014", "355.01"},
	}
	for _, c := range cases {
		if got := Round(d(c.in)); !got.Equal(d(c.want)) {
			t.Fatalf("Round(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestRoundQuantityUp(t *testing.T) {
	if got := RoundQuantityUp(d("2.0000000001")); !got.Equal(d("2.01")) {
		t.Fatalf("got %s, want 2.01", got)
	}
	if got := RoundQuantityUp(d("2.00")); !got.Equal(d("2.00")) {
		t.Fatalf("got %s, want 2.00", got)
	}
}

func TestRoundQuantityDown(t *testing.T) {
	if got := RoundQuantityDown(d("2.9999999999")); !got.Equal(d("2.99")) {
		t.Fatalf("got %s, want 2.99", got)
	}
}

func TestRoundAmountUp(t *testing.T) {
	if got := RoundAmountUp(d("69.991")); !got.Equal(d("70.00")) {
		t.Fatalf("got %s, want 70.00", got)
	}
}

func TestRoundRate(t *testing.T) {
	if got := RoundRate(d("0.92000049")); !got.Equal(d("0.920000")) {
		t.Fatalf("got %s, want 0.920000", got)
	}
	if got := RoundRate(d("0.9200005")); !got.Equal(d("0.920001")) {
		t.Fatalf("got %s, want 0.920001", got)
	}
}

func TestDivForQuantity(t *testing.T) {
	// 100 / 3 截断到10位中间精度
	got := DivForQuantity(d("100"), d("3"))
	if !got.Equal(d("33.3333333333")) {
		t.Fatalf("got %s, want 33.3333333333", got)
	}
}

func TestConvert(t *testing.T) {
	if got := Convert(d("99.25"), d("0.920000")); !got.Equal(d("91.31")) {
		t.Fatalf("got %s, want 91.31", got)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(d("150"), d("0.01")); !got.Equal(d("1.50")) {
		t.Fatalf("got %s, want 1.50", got)
	}
	if got := Percentage(d("100"), d("0.005")); !got.Equal(d("0.50")) {
		t.Fatalf("got %s, want 0.50", got)
	}
}
