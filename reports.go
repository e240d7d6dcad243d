package stocks

import (
	"errors"
	"maps"
	"slices"

	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// StocksReport lists the holdings with their average cost.
type StocksReport struct {
	Holdings []Holding
}

// NewStocksReport lists every holding of h.
func NewStocksReport(h *Holdings) StocksReport {
	return StocksReport{Holdings: slices.Collect(h.All())}
}

func (r StocksReport) Table() Table {
	t := Table{Name: "Stocks"}
	s := t.Append("Stock", "Shares", "Total", "Average")
	for _, e := range r.Holdings {
		s.Row(e.Symbol, e.Quantity.Int(), money2(e.Invested), money2(e.AverageCost()))
	}
	return t
}

// Position is the current value of a holding.
type Position struct {
	Holding
	Price    Money
	Total    Money   // current value of the position
	Delta    Money   // Total - Invested
	DeltaPct Percent // Delta / Invested
}

// CurrentReport values each holding at its latest price.
type CurrentReport struct {
	Positions     []Position
	TotalInvested Money
	TotalValue    Money
	Delta         Money
	DeltaPct      Percent // Undefined if nothing is invested
	Skipped       []string
}

// NewCurrentReport values the holdings at the latest prices.
//
// Symbols missing from latest are skipped and left out of the totals too.
func NewCurrentReport(h *Holdings, latest map[string]decimal.Decimal) CurrentReport {
	r := CurrentReport{TotalInvested: M(0, h.Currency()), TotalValue: M(0, h.Currency())}
	for e := range h.All() {
		price, ok := latest[e.Symbol]
		if !ok {
			r.Skipped = append(r.Skipped, e.Symbol)
			continue
		}
		p := Position{Holding: e, Price: M(price, h.Currency())}
		p.Total = e.Value(p.Price)
		p.Delta = p.Total.Sub(e.Invested)
		p.DeltaPct = ratioPercent(p.Delta, e.Invested)
		r.Positions = append(r.Positions, p)

		r.TotalInvested = r.TotalInvested.Add(e.Invested)
		r.TotalValue = r.TotalValue.Add(p.Total)
	}
	r.Delta = r.TotalValue.Sub(r.TotalInvested)
	r.DeltaPct = ratioPercent(r.Delta, r.TotalInvested)
	return r
}

func (r CurrentReport) Table() Table {
	t := Table{Name: "Current", Skipped: r.Skipped}
	s := t.Append("Stock", "Shares", "Current", "Total", "Delta1", "Delta2 (%)")
	for _, p := range r.Positions {
		s.Row(p.Symbol, p.Quantity.Int(), money2(p.Price), money2(p.Total), money2(p.Delta), pct2(p.DeltaPct))
	}
	s = t.Append("Total Inv", "Current Val", "Delta1", "Delta2 (%)")
	s.Row(money2(r.TotalInvested), money2(r.TotalValue), money2(r.Delta), pct2(r.DeltaPct))
	return t
}

// ratioPercent returns 100*a/b, Undefined if b is zero.
func ratioPercent(a, b Money) Percent {
	q, err := a.Ratio(b)
	if err != nil {
		return Undefined
	}
	return Percent(q.Mul(decimal.NewFromInt(100)).InexactFloat64())
}

// StockBeta is the variation of one stock compared to the benchmark.
type StockBeta struct {
	Symbol    string
	Current   Money
	Past      Money
	Delta     Money
	Variation Percent
	Beta      float64 // NaN if undefined
}

// BetaReport compares the variation of each stock, and of the portfolio, to a benchmark
// over the same number of sessions.
type BetaReport struct {
	Sessions           int
	Stocks             []StockBeta
	BenchmarkVariation Percent
	// Value weighted portfolio variation: sum of deltas over sum of past values.
	PortfolioVariation Percent
	PortfolioBeta      float64
	// Simple average of the stocks variations.
	AverageVariation Percent
	AverageBeta      float64
	Skipped          []string
}

// NewBetaReport computes the beta of every holding's series against benchmark over n sessions.
//
// Each stock is compared to the benchmark on the dates they have in common. The
// portfolio is compared on the dates the benchmark and every reported stock have in common.
func NewBetaReport(h *Holdings, series map[string]Series, benchmark Series, n int) BetaReport {
	r := BetaReport{
		Sessions:           n,
		BenchmarkVariation: Undefined,
		PortfolioVariation: Undefined,
		PortfolioBeta:      nan,
		AverageVariation:   Undefined,
		AverageBeta:        nan,
	}
	cur := h.Currency()
	common := benchmark // benchmark sessions shared by every reported stock
	var reported []Holding
	var sum float64
	for e := range h.All() {
		s, _ := Align(series[e.Symbol], benchmark)
		last, err1 := s.Last()
		back, err2 := s.Back(n)
		v, err3 := s.Variation(n)
		if err1 != nil || err2 != nil || err3 != nil {
			r.Skipped = append(r.Skipped, e.Symbol)
			continue
		}
		b := StockBeta{
			Symbol:    e.Symbol,
			Current:   M(last.Close, cur),
			Past:      M(back.Close, cur),
			Variation: v,
		}
		b.Delta = b.Current.Sub(b.Past)
		b.Beta, _ = Beta(s, benchmark, n)
		r.Stocks = append(r.Stocks, b)
		reported = append(reported, e)
		sum += float64(v)
		_, common = Align(s, common)
	}

	if v, err := common.Variation(n); err == nil {
		r.BenchmarkVariation = v
	}
	if len(r.Stocks) > 0 {
		r.AverageVariation = Percent(sum / float64(len(r.Stocks)))
		r.AverageBeta, _ = Ratio(r.AverageVariation, r.BenchmarkVariation)
	}

	delta, past := M(0, cur), M(0, cur)
	for _, e := range reported {
		s, _ := Align(series[e.Symbol], common)
		last, err1 := s.Last()
		back, err2 := s.Back(n)
		if err1 != nil || err2 != nil {
			return r
		}
		delta = delta.Add(M(last.Close.Sub(back.Close), cur).Mul(e.Quantity))
		past = past.Add(M(back.Close, cur).Mul(e.Quantity))
	}
	r.PortfolioVariation = ratioPercent(delta, past)
	r.PortfolioBeta, _ = Ratio(r.PortfolioVariation, r.BenchmarkVariation)
	return r
}

func (r BetaReport) Table() Table {
	t := Table{Name: "Beta", Skipped: r.Skipped}
	s := t.Append("Stock", "Current", "Yday", "Delta1", "Delta2 (%)", "Beta")
	for _, b := range r.Stocks {
		s.Row(b.Symbol, money2(b.Current), money2(b.Past), money2(b.Delta), pct2(b.Variation), num2(b.Beta))
	}
	s = t.Append("Port Var (%)", "Bench Var (%)", "Beta", "Avg Var (%)", "Avg Beta")
	s.Row(pct2(r.PortfolioVariation), pct2(r.BenchmarkVariation), num2(r.PortfolioBeta), pct2(r.AverageVariation), num2(r.AverageBeta))
	return t
}

// StockHistory is the variation of a stock over the standard windows.
type StockHistory struct {
	Symbol  string
	Current Money
	Windows []Window
}

// HistoryReport lists the 1d, 7d, 30d and 365d variations of each holding.
type HistoryReport struct {
	Stocks  []StockHistory
	Skipped []string
}

// NewHistoryReport computes the historical variations of each holding's series against its latest close.
func NewHistoryReport(h *Holdings, series map[string]Series) HistoryReport {
	var r HistoryReport
	for _, symbol := range h.Symbols() {
		s := series[symbol]
		last, err := s.Last()
		if err != nil {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		r.Stocks = append(r.Stocks, StockHistory{
			Symbol:  symbol,
			Current: M(last.Close, h.Currency()),
			Windows: HistoricalVariation(s, last.Close),
		})
	}
	return r
}

func (r HistoryReport) Table() Table {
	t := Table{Name: "History", Skipped: r.Skipped}
	s := t.Append("Stock", "Current", "1d (%)", "7d (%)", "30d (%)", "365d (%)")
	for _, st := range r.Stocks {
		row := []any{st.Symbol, money2(st.Current)}
		for _, w := range st.Windows {
			row = append(row, pct2(w.Variation))
		}
		s.Row(row...)
	}
	return t
}

// StockStats are the statistics of a stock's closes.
type StockStats struct {
	Symbol  string
	Current Money
	Stats
}

// StatsReport lists where each stock's latest close stands in its history.
type StatsReport struct {
	Stocks  []StockStats
	Skipped []string
}

// NewStatsReport describes each holding's series.
func NewStatsReport(h *Holdings, series map[string]Series) StatsReport {
	var r StatsReport
	for _, symbol := range h.Symbols() {
		s := series[symbol]
		last, err := s.Last()
		if err != nil {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		st, err := Describe(s.Closes(), last.Close.InexactFloat64())
		if errors.Is(err, ErrDataUnavailable) {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		r.Stocks = append(r.Stocks, StockStats{Symbol: symbol, Current: M(last.Close, h.Currency()), Stats: st})
	}
	return r
}

func (r StatsReport) Table() Table {
	t := Table{Name: "Stats", Skipped: r.Skipped}
	s := t.Append("Stock", "Current", "Mean", "Std Dev", "Z-Score", "Below Mean")
	for _, st := range r.Stocks {
		s.Row(st.Symbol, money2(st.Current), num2(st.Mean), num2(st.StdDev), num2(st.ZScore), st.BelowMean)
	}
	return t
}

// CorrelationReport lists the correlation of each holding with the benchmark.
type CorrelationReport struct {
	Benchmark    string
	Correlations map[string]float64
	Skipped      []string
}

// NewCorrelationReport correlates the daily changes of each holding's series with the benchmark's.
func NewCorrelationReport(h *Holdings, series map[string]Series, benchmark string, bench Series) CorrelationReport {
	r := CorrelationReport{Benchmark: benchmark, Correlations: make(map[string]float64)}
	for _, symbol := range h.Symbols() {
		s, ok := series[symbol]
		if !ok {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		c, err := Correlation(s, bench)
		if errors.Is(err, ErrDataUnavailable) {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		r.Correlations[symbol] = c
	}
	return r
}

func (r CorrelationReport) Table() Table {
	t := Table{Name: "Correlation", Skipped: r.Skipped}
	s := t.Append("Stock", "Correlation with "+r.Benchmark)
	for _, symbol := range slices.Sorted(maps.Keys(r.Correlations)) {
		s.Row(symbol, num2(r.Correlations[symbol]))
	}
	return t
}

// DailyTotal is the value of the portfolio on a day.
type DailyTotal struct {
	Date  date.Date
	Value Money
}

// DailyTotals values the holdings on every date for which all held symbols have a close.
//
// Symbols without a series, or with no shares held, are ignored.
func DailyTotals(h *Holdings, series map[string]Series) []DailyTotal {
	var held []Holding
	for e := range h.All() {
		if len(series[e.Symbol]) > 0 && e.Quantity.IsPositive() {
			held = append(held, e)
		}
	}
	if len(held) == 0 {
		return nil
	}
	var totals []DailyTotal
	for _, p := range series[held[0].Symbol] {
		total := M(0, h.Currency())
		complete := true
		for _, e := range held {
			q, ok := series[e.Symbol].On(p.Date)
			if !ok {
				complete = false
				break
			}
			total = total.Add(e.Value(M(q.Close, h.Currency())))
		}
		if complete {
			totals = append(totals, DailyTotal{Date: p.Date, Value: total})
		}
	}
	return totals
}

func totalsValues(totals []DailyTotal) []float64 {
	values := make([]float64, len(totals))
	for i, t := range totals {
		values[i] = t.Value.Float()
	}
	return values
}

// ForecastReport is the linear regression forecast of the portfolio daily totals.
type ForecastReport struct {
	From, To date.Date
	Forecast
}

// NewForecastReport fits the daily totals of the portfolio.
func NewForecastReport(totals []DailyTotal) (ForecastReport, error) {
	f, err := LinearRegressionForecast(totalsValues(totals))
	if err != nil {
		return ForecastReport{}, err
	}
	return ForecastReport{From: totals[0].Date, To: totals[len(totals)-1].Date, Forecast: f}, nil
}

func (r ForecastReport) Table() Table {
	t := Table{Name: "Forecast"}
	s := t.Append("From", "To", "Days", "Slope", "Intercept", "Forecast")
	s.Row(r.From.String(), r.To.String(), int64(r.Days), num2(r.Slope), num2(r.Intercept), num2(r.Next))
	return t
}

// FutureValueReport is a compounding table.
type FutureValueReport struct {
	Rate   decimal.Decimal
	Values []Money
}

// NewFutureValueReport compounds pv at rate over periods.
func NewFutureValueReport(pv Money, rate decimal.Decimal, periods int) FutureValueReport {
	r := FutureValueReport{Rate: rate}
	for _, v := range FutureValue(pv.value, rate, periods) {
		r.Values = append(r.Values, M(v, pv.cur))
	}
	return r
}

func (r FutureValueReport) Table() Table {
	t := Table{Name: "Future Value"}
	s := t.Append("Period", "Value")
	for k, v := range r.Values {
		s.Row(int64(k), money2(v))
	}
	return t
}

// SharpeReport is the Sharpe ratio of the portfolio daily totals.
type SharpeReport struct {
	RiskFree float64 // daily
	Sharpe
}

// NewSharpeReport computes the Sharpe ratio of the portfolio daily returns.
func NewSharpeReport(totals []DailyTotal, riskFree float64) (SharpeReport, error) {
	s, err := SharpeRatio(Returns(totalsValues(totals)), riskFree)
	return SharpeReport{RiskFree: riskFree, Sharpe: s}, err
}

func (r SharpeReport) Table() Table {
	t := Table{Name: "Sharpe"}
	s := t.Append("Risk Free (daily %)", "Sharpe (daily)", "Sharpe (annualized)")
	s.Row(num2(r.RiskFree*100), num2(r.Daily), num2(r.Annualized))
	return t
}

// Capitalization is the market capitalization of a company.
type Capitalization struct {
	Symbol string
	Price  Money
	Shares int64
	Cap    Money
}

// MarketCapReport lists the market capitalization of each holding.
type MarketCapReport struct {
	Stocks  []Capitalization
	Skipped []string
}

// NewMarketCapReport computes the market cap of each holding with a latest price and fundamentals.
func NewMarketCapReport(h *Holdings, latest map[string]decimal.Decimal, fundamentals map[string]Fundamentals) MarketCapReport {
	var r MarketCapReport
	for _, symbol := range h.Symbols() {
		price, ok := latest[symbol]
		f, okf := fundamentals[symbol]
		if !ok || !okf {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		shares, err := f.Shares()
		if err != nil {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		p := M(price, h.Currency())
		r.Stocks = append(r.Stocks, Capitalization{Symbol: symbol, Price: p, Shares: shares, Cap: MarketCap(p, shares)})
	}
	return r
}

func (r MarketCapReport) Table() Table {
	t := Table{Name: "Mkt Cap", Skipped: r.Skipped}
	s := t.Append("Stock", "Current", "Total Shares", "Mkt. Cap.")
	for _, c := range r.Stocks {
		s.Row(c.Symbol, money2(c.Price), c.Shares, money2(c.Cap))
	}
	return t
}

// FundamentalsReport lists the fundamental ratios of each holding.
type FundamentalsReport struct {
	Stocks  []Fundamentals
	Skipped []string
}

// NewFundamentalsReport lists the fundamentals available for the holdings.
func NewFundamentalsReport(h *Holdings, fundamentals map[string]Fundamentals) FundamentalsReport {
	var r FundamentalsReport
	for _, symbol := range h.Symbols() {
		f, ok := fundamentals[symbol]
		if !ok {
			r.Skipped = append(r.Skipped, symbol)
			continue
		}
		r.Stocks = append(r.Stocks, f)
	}
	return r
}

func (r FundamentalsReport) Table() Table {
	t := Table{Name: "Fundamentals", Skipped: r.Skipped}
	s := t.Append("Stock", "EBITDA Margin (%)", "ROE (%)", "ROA (%)", "Current Ratio", "50d Avg", "Beta")
	for _, f := range r.Stocks {
		s.Row(f.Symbol, num2(100*f.EBITDAMargin), num2(100*f.ROE), num2(100*f.ROA), num2(f.CurrentRatio), num2(f.MovingAverage50), num2(f.Beta))
	}
	return t
}
