package stocks

import (
	"math"
	"testing"

	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// BRL is a helper for test to create reais from const
func BRL(v float64) Money { return M(v, "BRL") }

// D is a helper for test to create decimals from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// closes builds a daily series for consecutive days starting on 2025-01-01.
func closes(values ...float64) Series {
	start := date.New(2025, 1, 1)
	s := make(Series, 0, len(values))
	for i, v := range values {
		s = append(s, Point{Date: start.Add(i), Close: D(v)})
	}
	return s
}

func near(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
