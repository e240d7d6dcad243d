package stocks

import (
	"fmt"
	"slices"

	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// Point is the daily price of a stock.
//
// Open, High, Low and Volume are optional, zero when the provider does not supply them.
type Point struct {
	Date   date.Date
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Series is a daily price history ordered by ascending date, with at most one point per date.
type Series []Point

// NewSeries returns a Series built from points in any order.
// For duplicated dates the last point wins.
func NewSeries(points ...Point) Series {
	s := slices.Clone(points)
	slices.SortStableFunc(s, func(a, b Point) int { return a.Date.Compare(b.Date) })
	// keep the last of each run of equal dates
	out := s[:0]
	for i, p := range s {
		if i+1 < len(s) && s[i+1].Date == p.Date {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Last returns the latest point.
func (s Series) Last() (Point, error) {
	if len(s) == 0 {
		return Point{}, ErrDataUnavailable
	}
	return s[len(s)-1], nil
}

// Back returns the point n trading sessions before the latest one.
func (s Series) Back(n int) (Point, error) {
	i := len(s) - 1 - n
	if n < 0 || i < 0 {
		return Point{}, fmt.Errorf("%d sessions back in a %d sessions history: %w", n, len(s), ErrDataUnavailable)
	}
	return s[i], nil
}

// On returns the point at a given date.
func (s Series) On(d date.Date) (Point, bool) {
	i, ok := slices.BinarySearchFunc(s, d, func(p Point, d date.Date) int { return p.Date.Compare(d) })
	if !ok {
		return Point{}, false
	}
	return s[i], true
}

// Closes returns the close prices as floats.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close.InexactFloat64()
	}
	return out
}

// Variation returns the percentage variation of the latest close against the close n sessions back.
func (s Series) Variation(n int) (Percent, error) {
	last, err := s.Last()
	if err != nil {
		return Undefined, err
	}
	past, err := s.Back(n)
	if err != nil {
		return Undefined, err
	}
	return PercentVariation(last.Close, past.Close)
}

// Align returns the points of a and b restricted to the dates present in both.
func Align(a, b Series) (Series, Series) {
	var x, y Series
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := a[i].Date.Compare(b[j].Date); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			x, y = append(x, a[i]), append(y, b[j])
			i++
			j++
		}
	}
	return x, y
}

// Returns computes the relative change between consecutive values, 0.01 is 1%.
//
// Changes from a zero value are skipped.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out = append(out, (values[i]-values[i-1])/values[i-1])
	}
	return out
}
