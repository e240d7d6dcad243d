package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/renderer"
	"github.com/etnz/stocks/workbook"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// reportCmd prints a report without parameters.
type reportCmd struct {
	name, report, synopsis, usage string
}

var reportCmds = []*reportCmd{
	{"portfolio", "current", "value the holdings at their latest price", "Lists each holding with its latest price, total value and delta with the invested amount, and the portfolio totals."},
	{"history", "history", "show the 1d, 7d, 30d and 365d variations", "Lists the variation of each holding's latest close over 1, 5, 22 sessions and the lookback period."},
	{"stats", "stats", "show statistics of the closes", "Lists the mean, standard deviation and z-score of the latest close of each holding over the lookback period."},
	{"correlation", "correlation", "correlate the holdings with the benchmark", "Lists the correlation of the daily changes of each holding with the benchmark's over the lookback period."},
	{"forecast", "forecast", "forecast the portfolio value", "Fits a linear regression on the portfolio daily totals over the lookback period, and extrapolates the next day."},
	{"mktcap", "mktcap", "show the market capitalization", "Lists the market capitalization of each holding: latest price times shares outstanding."},
	{"fundamentals", "fundamentals", "show fundamental ratios", "Lists EBITDA margin, ROE, ROA, current ratio, 50 days moving average and beta of each holding."},
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string {
	return fmt.Sprintf("stk %s\n\n  %s\n", c.name, c.usage)
}

func (*reportCmd) SetFlags(f *flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, func(r *stocks.Reporter, h *stocks.Holdings) (stocks.Table, error) {
		return r.Report(ctx, c.report, h)
	})
}

// runReport loads the holdings and the market, then prints the table built by report.
func runReport(ctx context.Context, report func(*stocks.Reporter, *stocks.Holdings) (stocks.Table, error)) subcommands.ExitStatus {
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	r, err := newReporter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	t, err := report(r, h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Markdown(t))
	return subcommands.ExitSuccess
}

type betaCmd struct {
	sessions int
}

func (*betaCmd) Name() string     { return "beta" }
func (*betaCmd) Synopsis() string { return "compare the holdings variations with the benchmark" }
func (*betaCmd) Usage() string {
	return `stk beta [-n <sessions>]

  Lists the variation of each holding over the last sessions, and its ratio
  to the benchmark variation over the same sessions. The portfolio beta is
  computed both weighted by value and as a simple average.
`
}

func (c *betaCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.sessions, "n", 1, "Number of trading sessions.")
}

func (c *betaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, func(r *stocks.Reporter, h *stocks.Holdings) (stocks.Table, error) {
		report, err := r.Beta(ctx, h, c.sessions)
		return report.Table(), err
	})
}

type sharpeCmd struct{}

func (*sharpeCmd) Name() string     { return "sharpe" }
func (*sharpeCmd) Synopsis() string { return "compute the Sharpe ratio of the portfolio" }
func (*sharpeCmd) Usage() string {
	return `stk [-risk-free <annual rate>] sharpe

  Computes the daily and annualized Sharpe ratio of the portfolio daily totals
  over the lookback period.
`
}

func (*sharpeCmd) SetFlags(f *flag.FlagSet) {}

func (*sharpeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, func(r *stocks.Reporter, h *stocks.Holdings) (stocks.Table, error) {
		report, err := r.Sharpe(ctx, h, r.RiskFree)
		return report.Table(), err
	})
}

type futureCmd struct {
	amount  string
	rate    string
	periods int
}

func (*futureCmd) Name() string     { return "future" }
func (*futureCmd) Synopsis() string { return "compound an amount over periods" }
func (*futureCmd) Usage() string {
	return `stk future -rate <rate> [-periods <n>] [-pv <amount>]

  Lists the value of an amount compounded at a fixed rate for each period.
  The amount defaults to the total invested in the holdings.
`
}

func (c *futureCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "pv", "", "Present value, the total invested by default.")
	f.StringVar(&c.rate, "rate", "0.01", "Rate per period, 0.01 is 1%.")
	f.IntVar(&c.periods, "periods", 12, "Number of periods.")
}

func (c *futureCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid rate %q: %v\n", c.rate, err)
		return subcommands.ExitUsageError
	}
	if c.periods < 0 {
		fmt.Fprintln(os.Stderr, "Error: periods must be positive")
		return subcommands.ExitUsageError
	}
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	pv := h.TotalInvested()
	if c.amount != "" {
		amount, err := decimal.NewFromString(c.amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid present value %q: %v\n", c.amount, err)
			return subcommands.ExitUsageError
		}
		pv = stocks.M(amount, h.Currency())
	}
	printMarkdown(renderer.Markdown(stocks.NewFutureValueReport(pv, rate, c.periods).Table()))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export reports to a spreadsheet" }
func (*exportCmd) Usage() string {
	return `stk export [-o <file.xlsx>] [<report>...]

  Writes the reports into a workbook, one sheet per report.
  Reports default to stocks, current, beta and mktcap.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "stocks.xlsx", "Path of the workbook to write.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{"stocks", "current", "beta", "mktcap"}
	}
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	r, err := newReporter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	tables := make([]stocks.Table, 0, len(names))
	for _, name := range names {
		t, err := r.Report(ctx, name, h)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		tables = append(tables, t)
	}
	if err := workbook.Write(c.output, tables...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Exported %d reports to %s\n", len(tables), c.output)
	return subcommands.ExitSuccess
}
