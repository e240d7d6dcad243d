package stocks

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Holdings maps a stock symbol to the position held in it.
//
// Its zero value is not usable, use NewHoldings.
type Holdings struct {
	currency string
	entries  map[string]Holding
}

// NewHoldings returns an empty Holdings whose amounts are in currency.
func NewHoldings(currency string) *Holdings {
	return &Holdings{currency: currency, entries: make(map[string]Holding)}
}

// DefaultHoldings returns the initial portfolio used when nothing has been saved yet.
func DefaultHoldings() *Holdings {
	h := NewHoldings("BRL")
	h.Replace(NewHolding("PETR3.SA", 1000, M(35690.0, "BRL")))
	h.Replace(NewHolding("VALE3.SA", 1000, M(68890.0, "BRL")))
	return h
}

// Currency returns the currency of the invested amounts.
func (h *Holdings) Currency() string { return h.currency }

// Len returns the number of symbols.
func (h *Holdings) Len() int { return len(h.entries) }

// Get returns the holding for a symbol.
func (h *Holdings) Get(symbol string) (Holding, bool) {
	e, ok := h.entries[normalize(symbol)]
	return e, ok
}

// Symbols returns all symbols, sorted.
func (h *Holdings) Symbols() []string { return slices.Sorted(maps.Keys(h.entries)) }

// All iterates over the holdings in symbol order.
func (h *Holdings) All() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for _, s := range h.Symbols() {
			if !yield(h.entries[s]) {
				return
			}
		}
	}
}

// TotalInvested returns the sum of all invested amounts.
func (h *Holdings) TotalInvested() Money {
	total := M(0, h.currency)
	for e := range h.All() {
		total = total.Add(e.Invested)
	}
	return total
}

// Buy adds quantity shares of symbol bought at unitPrice.
func (h *Holdings) Buy(symbol string, quantity int64, unitPrice decimal.Decimal) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return errors.New("buy: empty symbol")
	}
	if quantity <= 0 {
		return fmt.Errorf("buy %s: quantity must be positive, got %d", symbol, quantity)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("buy %s: negative price %s", symbol, unitPrice)
	}
	e, ok := h.entries[symbol]
	if !ok {
		e = Holding{Symbol: symbol, Invested: M(0, h.currency)}
	}
	q := Q(quantity)
	e.Quantity = e.Quantity.Add(q)
	e.Invested = e.Invested.Add(M(unitPrice, h.currency).Mul(q))
	h.entries[symbol] = e
	return nil
}

// Sell removes quantity shares of symbol sold at unitPrice.
//
// The amount invested is reduced by the sale volume, and never goes below zero.
// Selling more shares than held fails with ErrInsufficientShares and leaves
// the holdings unchanged.
func (h *Holdings) Sell(symbol string, quantity int64, unitPrice decimal.Decimal) error {
	symbol = normalize(symbol)
	if quantity <= 0 {
		return fmt.Errorf("sell %s: quantity must be positive, got %d", symbol, quantity)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("sell %s: negative price %s", symbol, unitPrice)
	}
	e, ok := h.entries[symbol]
	q := Q(quantity)
	if !ok || e.Quantity.LessThan(q) {
		held := Q(0)
		if ok {
			held = e.Quantity
		}
		return fmt.Errorf("sell %d %s: only %s held: %w", quantity, symbol, held, ErrInsufficientShares)
	}
	e.Quantity = e.Quantity.Sub(q)
	e.Invested = e.Invested.Sub(M(unitPrice, h.currency).Mul(q))
	if e.Invested.IsNegative() {
		e.Invested = M(0, h.currency)
	}
	h.entries[symbol] = e
	return nil
}

// Delete removes symbol, if present.
func (h *Holdings) Delete(symbol string) { delete(h.entries, normalize(symbol)) }

// Replace sets the holding of e.Symbol wholesale.
func (h *Holdings) Replace(e Holding) error {
	e.Symbol = normalize(e.Symbol)
	switch {
	case e.Symbol == "":
		return errors.New("replace: empty symbol")
	case e.Quantity.IsNegative():
		return fmt.Errorf("replace %s: negative quantity %s", e.Symbol, e.Quantity)
	case e.Invested.IsNegative():
		return fmt.Errorf("replace %s: negative invested amount %s", e.Symbol, e.Invested)
	}
	if e.Invested.cur == "" {
		e.Invested.cur = h.currency
	}
	if e.Invested.cur != h.currency {
		return fmt.Errorf("replace %s: invested amount in %s, holdings are in %s", e.Symbol, e.Invested.cur, h.currency)
	}
	h.entries[e.Symbol] = e
	return nil
}

// Equal reports whether both holdings contain the same entries.
func (h *Holdings) Equal(o *Holdings) bool {
	return maps.EqualFunc(h.entries, o.entries, Holding.Equal)
}

// symbols are case insensitive and stored in upper case.
func normalize(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }
