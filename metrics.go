package stocks

import (
	"fmt"
	"iter"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the number of sessions used to annualize daily figures.
const TradingDaysPerYear = 252

// PercentVariation returns the change from past to current, in percent.
//
// It fails with ErrUndefinedRatio when past is zero.
func PercentVariation(current, past decimal.Decimal) (Percent, error) {
	if past.IsZero() {
		return Undefined, fmt.Errorf("variation from 0: %w", ErrUndefinedRatio)
	}
	v := current.Sub(past).Div(past).Mul(decimal.NewFromInt(100))
	return Percent(v.InexactFloat64()), nil
}

// Ratio divides two percentages, it is the beta of a variation relative to the variation of a benchmark.
func Ratio(p, benchmark Percent) (float64, error) {
	if benchmark == 0 || !benchmark.IsDefined() || !p.IsDefined() {
		return math.NaN(), fmt.Errorf("ratio of %v by %v: %w", p, benchmark, ErrUndefinedRatio)
	}
	return float64(p / benchmark), nil
}

// Beta returns the variation of asset over the last n sessions divided by the
// variation of benchmark over the same n sessions.
//
// Only the dates both series have are sessions, so the two variations always
// cover the same window.
func Beta(asset, benchmark Series, n int) (float64, error) {
	a, b := Align(asset, benchmark)
	av, err := a.Variation(n)
	if err != nil {
		return math.NaN(), err
	}
	bv, err := b.Variation(n)
	if err != nil {
		return math.NaN(), err
	}
	return Ratio(av, bv)
}

// Window is the variation of a price against the close some sessions back.
type Window struct {
	Label     string
	Sessions  int
	Variation Percent // Undefined if the history is too short
}

// HistoricalVariation returns the variation of current against the close 1, 5 and 22
// sessions back, and against the first close of the history, approximating a day, a week,
// a month and a year of trading.
func HistoricalVariation(s Series, current decimal.Decimal) []Window {
	windows := []Window{
		{Label: "1d", Sessions: 1},
		{Label: "7d", Sessions: 5},
		{Label: "30d", Sessions: 22},
		{Label: "365d", Sessions: len(s) - 1},
	}
	for i, w := range windows {
		windows[i].Variation = Undefined
		past, err := s.Back(w.Sessions)
		if err != nil || w.Sessions <= 0 {
			continue
		}
		if v, err := PercentVariation(current, past.Close); err == nil {
			windows[i].Variation = v
		}
	}
	return windows
}

// Stats are descriptive statistics of a series of values, and where a current value stands in it.
type Stats struct {
	Mean      float64
	StdDev    float64 // sample standard deviation
	ZScore    float64 // NaN when StdDev is zero
	BelowMean bool
}

// Describe computes the mean and standard deviation of values, and the z-score of current.
//
// At least two values are needed. A zero standard deviation returns the stats with a NaN
// z-score and ErrUndefinedRatio.
func Describe(values []float64, current float64) (Stats, error) {
	if len(values) < 2 {
		return Stats{ZScore: math.NaN()}, fmt.Errorf("stats of %d values: %w", len(values), ErrDataUnavailable)
	}
	mean, std := stat.MeanStdDev(values, nil)
	s := Stats{Mean: mean, StdDev: std, ZScore: math.NaN(), BelowMean: current < mean}
	if std == 0 {
		return s, fmt.Errorf("z-score with no deviation: %w", ErrUndefinedRatio)
	}
	s.ZScore = (current - mean) / std
	return s, nil
}

// Correlation returns the Pearson correlation of the daily percent changes of a and b,
// on the dates they have in common.
func Correlation(a, b Series) (float64, error) {
	x, y := Align(a, b)
	var dx, dy []float64
	for i := 1; i < len(x); i++ {
		px, py := x[i-1].Close, y[i-1].Close
		if px.IsZero() || py.IsZero() {
			continue
		}
		dx = append(dx, x[i].Close.Sub(px).Div(px).InexactFloat64())
		dy = append(dy, y[i].Close.Sub(py).Div(py).InexactFloat64())
	}
	if len(dx) < 2 {
		return math.NaN(), fmt.Errorf("correlation over %d common changes: %w", len(dx), ErrDataUnavailable)
	}
	c := stat.Correlation(dx, dy, nil)
	if math.IsNaN(c) {
		return c, fmt.Errorf("correlation with a constant series: %w", ErrUndefinedRatio)
	}
	return c, nil
}

// Forecast is an ordinary least squares fit of values against their day index.
type Forecast struct {
	Slope     float64
	Intercept float64
	Days      int     // number of observed days
	Next      float64 // extrapolated value for the day after the last observed one
}

// LinearRegressionForecast fits values[i] against the day index i+1 and extrapolates
// one day beyond the last one.
func LinearRegressionForecast(values []float64) (Forecast, error) {
	n := len(values)
	if n < 2 {
		return Forecast{}, fmt.Errorf("regression over %d days: %w", n, ErrDataUnavailable)
	}
	days := make([]float64, n)
	for i := range days {
		days[i] = float64(i + 1)
	}
	alpha, beta := stat.LinearRegression(days, values, nil, false)
	return Forecast{
		Slope:     beta,
		Intercept: alpha,
		Days:      n,
		Next:      beta*float64(n+1) + alpha,
	}, nil
}

// FutureValue yields the value of pv compounded at rate for each period from 0 to periods.
//
// The sequence always starts with pv itself and can be iterated any number of times.
func FutureValue(pv, rate decimal.Decimal, periods int) iter.Seq2[int, decimal.Decimal] {
	factor := decimal.NewFromInt(1).Add(rate)
	return func(yield func(int, decimal.Decimal) bool) {
		v := pv
		for k := 0; k <= periods; k++ {
			if !yield(k, v) {
				return
			}
			v = v.Mul(factor)
		}
	}
}

// Sharpe is the risk adjusted return of a series of daily returns.
type Sharpe struct {
	Daily      float64
	Annualized float64
}

// SharpeRatio computes (mean(returns) - riskFree) / stddev(returns) and its annualized
// value. returns and riskFree are daily rates, 0.01 is 1%.
func SharpeRatio(returns []float64, riskFree float64) (Sharpe, error) {
	if len(returns) < 2 {
		return Sharpe{math.NaN(), math.NaN()}, fmt.Errorf("sharpe ratio of %d returns: %w", len(returns), ErrDataUnavailable)
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return Sharpe{math.NaN(), math.NaN()}, fmt.Errorf("sharpe ratio with no volatility: %w", ErrUndefinedRatio)
	}
	daily := (mean - riskFree) / std
	return Sharpe{Daily: daily, Annualized: daily * math.Sqrt(TradingDaysPerYear)}, nil
}

// DailyRate converts an annual rate into the equivalent daily rate over trading days.
func DailyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/TradingDaysPerYear) - 1
}

// MarketCap returns the market capitalization of a company.
func MarketCap(price Money, sharesOutstanding int64) Money {
	return price.Mul(Q(sharesOutstanding))
}
