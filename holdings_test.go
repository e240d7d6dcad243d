package stocks

import (
	"errors"
	"testing"
)

func TestHolding_AverageCost(t *testing.T) {
	tests := []struct {
		name string
		h    Holding
		want Money
	}{
		{"regular", NewHolding("ABC", 10, BRL(1000)), BRL(100)},
		{"no shares", NewHolding("ABC", 0, BRL(1000)), BRL(0)},
		{"nothing", NewHolding("ABC", 0, BRL(0)), BRL(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.AverageCost(); !got.Equal(tt.want) {
				t.Errorf("AverageCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHoldings_Buy(t *testing.T) {
	h := NewHoldings("BRL")
	if err := h.Buy("abc", 10, D(100)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := h.Buy("ABC", 5, D(130)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	got, ok := h.Get("ABC")
	if !ok {
		t.Fatal("Get(ABC) not found after Buy()")
	}
	want := NewHolding("ABC", 15, BRL(1650))
	if !got.Equal(want) {
		t.Errorf("after buys got %v want %v", got, want)
	}
}

func TestHoldings_BuyInvalid(t *testing.T) {
	h := NewHoldings("BRL")
	if err := h.Buy("ABC", 0, D(100)); err == nil {
		t.Error("Buy(0 shares) want error")
	}
	if err := h.Buy("ABC", 1, D(-1)); err == nil {
		t.Error("Buy(negative price) want error")
	}
	if err := h.Buy(" ", 1, D(1)); err == nil {
		t.Error("Buy(empty symbol) want error")
	}
	if h.Len() != 0 {
		t.Errorf("invalid buys changed the holdings: %v", h.Symbols())
	}
}

func TestHoldings_Sell(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		price    float64
		want     Holding
	}{
		{"partial", 4, 120, NewHolding("ABC", 6, BRL(520))},
		{"all at cost", 10, 100, NewHolding("ABC", 0, BRL(0))},
		{"all above cost", 10, 200, NewHolding("ABC", 0, BRL(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHoldings("BRL")
			h.Replace(NewHolding("ABC", 10, BRL(1000)))
			if err := h.Sell("ABC", tt.quantity, D(tt.price)); err != nil {
				t.Fatalf("Sell() error = %v", err)
			}
			got, _ := h.Get("ABC")
			if !got.Equal(tt.want) {
				t.Errorf("Sell() got %v want %v", got, tt.want)
			}
			if got.Quantity.IsNegative() || got.Invested.IsNegative() {
				t.Errorf("Sell() went negative %v", got)
			}
		})
	}
}

func TestHoldings_SellInsufficient(t *testing.T) {
	h := NewHoldings("BRL")
	before := NewHolding("ABC", 10, BRL(1000))
	h.Replace(before)

	err := h.Sell("ABC", 11, D(100))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("Sell() error = %v, want ErrInsufficientShares", err)
	}
	got, _ := h.Get("ABC")
	if !got.Equal(before) {
		t.Errorf("failed Sell() changed the holding: %v", got)
	}

	if err := h.Sell("XYZ", 1, D(1)); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Sell(unknown) error = %v, want ErrInsufficientShares", err)
	}
	if _, ok := h.Get("XYZ"); ok {
		t.Error("failed Sell() created a holding")
	}
}

func TestHoldings_DeleteReplace(t *testing.T) {
	h := DefaultHoldings()
	if got := h.Symbols(); len(got) != 2 || got[0] != "PETR3.SA" || got[1] != "VALE3.SA" {
		t.Fatalf("DefaultHoldings() symbols = %v", got)
	}
	h.Delete("UNKNOWN")
	if h.Len() != 2 {
		t.Errorf("Delete(unknown) changed the holdings")
	}
	h.Delete("petr3.sa")
	if _, ok := h.Get("PETR3.SA"); ok {
		t.Errorf("Delete() did not remove PETR3.SA")
	}
	if err := h.Replace(NewHolding("VALE3.SA", 5, BRL(300))); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got, _ := h.Get("VALE3.SA"); !got.Equal(NewHolding("VALE3.SA", 5, BRL(300))) {
		t.Errorf("Replace() got %v", got)
	}
	if err := h.Replace(NewHolding("VALE3.SA", -1, BRL(300))); err == nil {
		t.Errorf("Replace(negative quantity) want error")
	}
	if !h.TotalInvested().Equal(BRL(300)) {
		t.Errorf("TotalInvested() = %v", h.TotalInvested())
	}
}

func TestHoldings_ReplaceCurrency(t *testing.T) {
	h := NewHoldings("BRL")
	if err := h.Buy("ABC", 10, D(100)); err != nil {
		t.Fatal(err)
	}
	if err := h.Replace(NewHolding("XYZ", 1, M(5, "USD"))); err == nil {
		t.Error("Replace() in USD into BRL holdings succeeded, want an error")
	}
	if _, ok := h.Get("XYZ"); ok {
		t.Error("Replace() in another currency added XYZ")
	}
	if !h.TotalInvested().Equal(BRL(1000)) {
		t.Errorf("TotalInvested() = %v, want 1000", h.TotalInvested())
	}
}
