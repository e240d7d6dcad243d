package stocks

import "github.com/shopspring/decimal"

// Holding is the position held in a single stock.
type Holding struct {
	Symbol   string
	Quantity Quantity // number of shares held, never negative
	Invested Money    // cumulative amount invested, never negative
}

// NewHolding creates a Holding.
func NewHolding(symbol string, quantity int64, invested Money) Holding {
	return Holding{Symbol: symbol, Quantity: Q(quantity), Invested: invested}
}

// AverageCost returns the amount invested per share, zero when no shares are held.
func (h Holding) AverageCost() Money {
	if h.Quantity.IsZero() {
		return Money{value: decimal.Zero, cur: h.Invested.cur}
	}
	return h.Invested.Div(h.Quantity)
}

// Value returns the value of the position at a given price per share.
func (h Holding) Value(price Money) Money { return price.Mul(h.Quantity) }

// Equal reports whether both holdings have the same symbol, quantity and invested amount.
func (h Holding) Equal(o Holding) bool {
	return h.Symbol == o.Symbol && h.Quantity.Equal(o.Quantity) && h.Invested.Equal(o.Invested)
}
