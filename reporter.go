package stocks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// DefaultBenchmark is the benchmark index used when none is configured, the Bovespa index.
const DefaultBenchmark = "BVSP.INDX"

// Reporter fetches the market data each report needs and builds it.
type Reporter struct {
	Market    Market
	Benchmark string    // symbol of the benchmark index
	On        date.Date // last day of the reports, today if zero
	Lookback  int       // days of history for statistics, a year if zero
	RiskFree  float64   // annual risk free rate, 0.1 is 10%
}

func (r *Reporter) today() date.Date {
	if r.On.IsZero() {
		return date.Today()
	}
	return r.On
}

func (r *Reporter) benchmark() string {
	if r.Benchmark == "" {
		return DefaultBenchmark
	}
	return r.Benchmark
}

func (r *Reporter) from() date.Date {
	if r.Lookback <= 0 {
		return date.Yearly.Lookback(r.today(), 1)
	}
	return r.today().Add(-r.Lookback)
}

// recent fetches at least n sessions of history before today for every symbol.
func (r *Reporter) recent(ctx context.Context, symbols []string, n int) (map[string]Series, []string, error) {
	// calendar days contains weekends and holidays
	from := r.today().Add(-(2*n + 7))
	return Collect(ctx, r.Market, symbols, from, r.today())
}

// Latest returns the latest close of each symbol.
func (r *Reporter) Latest(ctx context.Context, symbols []string) (map[string]decimal.Decimal, []string, error) {
	series, skipped, err := r.recent(ctx, symbols, 1)
	if err != nil {
		return nil, nil, err
	}
	latest := make(map[string]decimal.Decimal, len(series))
	for symbol, s := range series {
		last, _ := s.Last()
		latest[symbol] = last.Close
	}
	return latest, skipped, nil
}

// Stocks reports the holdings, it does not need any market data.
func (r *Reporter) Stocks(_ context.Context, h *Holdings) (StocksReport, error) {
	return NewStocksReport(h), nil
}

// Current values the holdings at their latest close.
func (r *Reporter) Current(ctx context.Context, h *Holdings) (CurrentReport, error) {
	latest, _, err := r.Latest(ctx, h.Symbols())
	if err != nil {
		return CurrentReport{}, err
	}
	return NewCurrentReport(h, latest), nil
}

// Beta compares the holdings variations over n sessions with the benchmark's.
func (r *Reporter) Beta(ctx context.Context, h *Holdings, n int) (BetaReport, error) {
	if n <= 0 {
		n = 1
	}
	bench, err := r.Market.History(ctx, r.benchmark(), r.today().Add(-(2*n + 7)), r.today())
	if err != nil {
		return BetaReport{}, fmt.Errorf("benchmark %s: %w", r.benchmark(), err)
	}
	series, skipped, err := r.recent(ctx, h.Symbols(), n)
	if err != nil {
		return BetaReport{}, err
	}
	report := NewBetaReport(h, series, bench, n)
	report.Skipped = merge(skipped, report.Skipped)
	return report, nil
}

// History reports the variations of the holdings over standard windows.
func (r *Reporter) History(ctx context.Context, h *Holdings) (HistoryReport, error) {
	series, skipped, err := Collect(ctx, r.Market, h.Symbols(), r.from(), r.today())
	if err != nil {
		return HistoryReport{}, err
	}
	report := NewHistoryReport(h, series)
	report.Skipped = merge(skipped, report.Skipped)
	return report, nil
}

// Stats describes the holdings closes over the lookback period.
func (r *Reporter) Stats(ctx context.Context, h *Holdings) (StatsReport, error) {
	series, skipped, err := Collect(ctx, r.Market, h.Symbols(), r.from(), r.today())
	if err != nil {
		return StatsReport{}, err
	}
	report := NewStatsReport(h, series)
	report.Skipped = merge(skipped, report.Skipped)
	return report, nil
}

// Correlation correlates the holdings with the benchmark over the lookback period.
func (r *Reporter) Correlation(ctx context.Context, h *Holdings) (CorrelationReport, error) {
	bench, err := r.Market.History(ctx, r.benchmark(), r.from(), r.today())
	if err != nil {
		return CorrelationReport{}, fmt.Errorf("benchmark %s: %w", r.benchmark(), err)
	}
	series, skipped, err := Collect(ctx, r.Market, h.Symbols(), r.from(), r.today())
	if err != nil {
		return CorrelationReport{}, err
	}
	report := NewCorrelationReport(h, series, r.benchmark(), bench)
	report.Skipped = merge(skipped, report.Skipped)
	return report, nil
}

// Totals returns the portfolio daily totals over the lookback period.
func (r *Reporter) Totals(ctx context.Context, h *Holdings) ([]DailyTotal, error) {
	series, _, err := Collect(ctx, r.Market, h.Symbols(), r.from(), r.today())
	if err != nil {
		return nil, err
	}
	return DailyTotals(h, series), nil
}

// Forecast extrapolates the portfolio daily totals by one day.
func (r *Reporter) Forecast(ctx context.Context, h *Holdings) (ForecastReport, error) {
	totals, err := r.Totals(ctx, h)
	if err != nil {
		return ForecastReport{}, err
	}
	return NewForecastReport(totals)
}

// Sharpe computes the Sharpe ratio of the portfolio daily totals for an annual risk free rate.
func (r *Reporter) Sharpe(ctx context.Context, h *Holdings, annualRiskFree float64) (SharpeReport, error) {
	totals, err := r.Totals(ctx, h)
	if err != nil {
		return SharpeReport{}, err
	}
	return NewSharpeReport(totals, DailyRate(annualRiskFree))
}

// fundamentals fetches the fundamentals of each symbol, skipping those unavailable.
func (r *Reporter) fundamentals(ctx context.Context, symbols []string) (map[string]Fundamentals, error) {
	out := make(map[string]Fundamentals, len(symbols))
	for _, symbol := range symbols {
		f, err := r.Market.Fundamentals(ctx, symbol)
		if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, ErrDataUnavailable) {
			log.Printf("warning, skipping %s fundamentals: %v", symbol, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fundamentals of %s: %w", symbol, err)
		}
		out[symbol] = f
	}
	return out, nil
}

// MarketCap reports the market capitalization of the holdings.
func (r *Reporter) MarketCap(ctx context.Context, h *Holdings) (MarketCapReport, error) {
	latest, _, err := r.Latest(ctx, h.Symbols())
	if err != nil {
		return MarketCapReport{}, err
	}
	f, err := r.fundamentals(ctx, h.Symbols())
	if err != nil {
		return MarketCapReport{}, err
	}
	return NewMarketCapReport(h, latest, f), nil
}

// Fundamentals reports the fundamental ratios of the holdings.
func (r *Reporter) Fundamentals(ctx context.Context, h *Holdings) (FundamentalsReport, error) {
	f, err := r.fundamentals(ctx, h.Symbols())
	if err != nil {
		return FundamentalsReport{}, err
	}
	return NewFundamentalsReport(h, f), nil
}

// Tabler is implemented by every report.
type Tabler interface{ Table() Table }

// Reports lists the names accepted by Report.
var Reports = []string{"stocks", "current", "beta", "history", "stats", "correlation", "forecast", "sharpe", "mktcap", "fundamentals"}

// Report builds a report by name, with default parameters.
func (r *Reporter) Report(ctx context.Context, name string, h *Holdings) (Table, error) {
	var (
		t   Tabler
		err error
	)
	switch strings.ToLower(name) {
	case "stocks":
		t, err = r.Stocks(ctx, h)
	case "current":
		t, err = r.Current(ctx, h)
	case "beta":
		t, err = r.Beta(ctx, h, 1)
	case "history":
		t, err = r.History(ctx, h)
	case "stats":
		t, err = r.Stats(ctx, h)
	case "correlation":
		t, err = r.Correlation(ctx, h)
	case "forecast":
		t, err = r.Forecast(ctx, h)
	case "sharpe":
		t, err = r.Sharpe(ctx, h, r.RiskFree)
	case "mktcap":
		t, err = r.MarketCap(ctx, h)
	case "fundamentals":
		t, err = r.Fundamentals(ctx, h)
	default:
		return Table{}, fmt.Errorf("unknown report %q, want one of %s", name, strings.Join(Reports, ", "))
	}
	if err != nil {
		return Table{}, fmt.Errorf("%s report: %w", name, err)
	}
	return t.Table(), nil
}

// merge returns the sorted union of symbols.
func merge(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}
