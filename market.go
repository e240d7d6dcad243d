package stocks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// Market is the source of market data.
type Market interface {
	// History returns the daily prices of symbol between from and to, bounds included.
	History(ctx context.Context, symbol string, from, to date.Date) (Series, error)
	// Fundamentals returns a snapshot of the company's fundamentals.
	Fundamentals(ctx context.Context, symbol string) (Fundamentals, error)
}

// SharesPoint is the number of shares outstanding reported at a date.
type SharesPoint struct {
	Date   date.Date
	Shares int64
}

// Fundamentals is a snapshot of fundamental ratios for a company.
//
// Ratios not supplied by the market are NaN, and SharesOutstanding is zero.
type Fundamentals struct {
	Symbol            string
	SharesOutstanding int64
	SharesHistory     []SharesPoint // ascending dates
	EBITDAMargin      float64
	ROE               float64
	ROA               float64
	CurrentRatio      float64
	MovingAverage50   float64
	Beta              float64
}

// NewFundamentals returns Fundamentals with every ratio missing.
func NewFundamentals(symbol string) Fundamentals {
	nan := math.NaN()
	return Fundamentals{
		Symbol:          symbol,
		EBITDAMargin:    nan,
		ROE:             nan,
		ROA:             nan,
		CurrentRatio:    nan,
		MovingAverage50: nan,
		Beta:            nan,
	}
}

// Shares returns the latest known number of shares outstanding.
func (f Fundamentals) Shares() (int64, error) {
	if f.SharesOutstanding > 0 {
		return f.SharesOutstanding, nil
	}
	if n := len(f.SharesHistory); n > 0 && f.SharesHistory[n-1].Shares > 0 {
		return f.SharesHistory[n-1].Shares, nil
	}
	return 0, fmt.Errorf("%s shares outstanding: %w", f.Symbol, ErrDataUnavailable)
}

// Collect fetches the history of each symbol from m.
//
// Symbols with no data (ErrDataUnavailable) are skipped: they are missing from the returned
// map and listed in skipped. Any other error aborts the collection.
func Collect(ctx context.Context, m Market, symbols []string, from, to date.Date) (series map[string]Series, skipped []string, err error) {
	series = make(map[string]Series, len(symbols))
	for _, symbol := range symbols {
		s, err := m.History(ctx, symbol, from, to)
		if err == nil && len(s) == 0 {
			err = fmt.Errorf("%s: no prices: %w", symbol, ErrDataUnavailable)
		}
		if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
			return nil, nil, ctxErr
		}
		if errors.Is(err, ErrDataUnavailable) {
			log.Printf("warning, skipping %s: %v", symbol, err)
			skipped = append(skipped, symbol)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("history of %s: %w", symbol, err)
		}
		series[symbol] = s
	}
	return series, skipped, nil
}

// MarketData is an in-memory Market.
type MarketData struct {
	prices       map[string]Series
	fundamentals map[string]Fundamentals
}

// NewMarketData returns an empty MarketData.
func NewMarketData() *MarketData {
	return &MarketData{
		prices:       make(map[string]Series),
		fundamentals: make(map[string]Fundamentals),
	}
}

// Append adds points to the history of symbol.
func (m *MarketData) Append(symbol string, points ...Point) {
	symbol = normalize(symbol)
	m.prices[symbol] = NewSeries(append(m.prices[symbol], points...)...)
}

// SetFundamentals sets the fundamentals of f.Symbol.
func (m *MarketData) SetFundamentals(f Fundamentals) { m.fundamentals[normalize(f.Symbol)] = f }

// History implements Market.
func (m *MarketData) History(_ context.Context, symbol string, from, to date.Date) (Series, error) {
	var out Series
	for _, p := range m.prices[normalize(symbol)] {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s from %s to %s: %w", symbol, from, to, ErrDataUnavailable)
	}
	return out, nil
}

// Fundamentals implements Market.
func (m *MarketData) Fundamentals(_ context.Context, symbol string) (Fundamentals, error) {
	f, ok := m.fundamentals[normalize(symbol)]
	if !ok {
		return NewFundamentals(symbol), fmt.Errorf("%s fundamentals: %w", symbol, ErrDataUnavailable)
	}
	return f, nil
}

// LoadPrices reads a price file into a new MarketData. See DecodePrices.
func LoadPrices(path string) (*MarketData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := DecodePrices(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode prices %q: %w", path, err)
	}
	return m, nil
}

// DecodePrices reads CSV rows date,symbol,close after a header row.
func DecodePrices(r io.Reader) (*MarketData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true
	m := NewMarketData()
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		return nil, err
	}
	points := make(map[string][]Point)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		on, err := date.Parse(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid close %q: %w", line, row[2], err)
		}
		symbol := normalize(row[1])
		points[symbol] = append(points[symbol], Point{Date: on, Close: c})
	}
	for symbol, p := range points {
		m.Append(symbol, p...)
	}
	return m, nil
}
