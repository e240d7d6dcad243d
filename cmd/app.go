// Package cmd implements the stk command line application to track a stock portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/etnz/stocks/eodhd"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "holdings")
	c.Register(&showCmd{}, "holdings")
	c.Register(newBuyCmd(), "holdings")
	c.Register(newSellCmd(), "holdings")
	c.Register(&deleteCmd{}, "holdings")
	c.Register(&editCmd{}, "holdings")

	for _, r := range reportCmds {
		c.Register(r, "reports")
	}
	c.Register(&betaCmd{}, "reports")
	c.Register(&sharpeCmd{}, "reports")
	c.Register(&futureCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&searchCmd{}, "market")

	c.Register(&menuCmd{}, "interactive")
	c.Register(&assistCmd{}, "interactive")

	c.Register(&topicCmd{}, "help")
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	holdingsFile = flag.String("holdings", "holdings.csv", "Path to the holdings file, JSON if it ends with .json, CSV otherwise")
	currency     = flag.String("currency", "BRL", "Currency of the invested amounts")
	benchmark    = flag.String("benchmark", stocks.DefaultBenchmark, "Symbol of the benchmark index")
	eodhdAPIKey  = flag.String("eodhd-api-key", os.Getenv("EODHD_API_KEY"), "EODHD API key, defaults to $EODHD_API_KEY")
	pricesFile   = flag.String("prices", "", "Path to a CSV price file (date,symbol,close) used instead of EODHD")
	onDate       = flag.String("on", "", "Last day of the reports, today if empty")
	lookback     = flag.Int("lookback", 365, "Days of history used by statistics")
	riskFree     = flag.Float64("risk-free", 0, "Annual risk free rate used by the Sharpe ratio, 0.1 is 10%")
	rawMarkdown  = flag.Bool("markdown", false, "Print raw markdown instead of rendering it for the terminal")
	configFile   = flag.String("config", ".stk.yaml", "Path to an optional YAML configuration file, flags set on the command line take precedence")
)

// loadHoldings loads the holdings file, an empty store if it does not exist yet.
func loadHoldings() (*stocks.Holdings, error) {
	h, err := stocks.LoadHoldings(*holdingsFile, *currency)
	if errors.Is(err, stocks.ErrNotFound) {
		log.Printf("warning, %s does not exist, starting with empty holdings", *holdingsFile)
		return h, nil
	}
	return h, err
}

// saveHoldings saves the holdings into the holdings file.
func saveHoldings(h *stocks.Holdings) error {
	return stocks.SaveHoldings(*holdingsFile, h)
}

// newMarket returns the offline prices if any, the EODHD client otherwise.
func newMarket() (stocks.Market, error) {
	if *pricesFile != "" {
		m, err := stocks.LoadPrices(*pricesFile)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	c, err := newEODHD()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newEODHD() (*eodhd.Client, error) {
	if *eodhdAPIKey == "" {
		return nil, errors.New("missing EODHD API key, use -eodhd-api-key, $EODHD_API_KEY or -prices")
	}
	return eodhd.New(*eodhdAPIKey), nil
}

// newReporter returns a Reporter configured by the global flags.
func newReporter() (*stocks.Reporter, error) {
	m, err := newMarket()
	if err != nil {
		return nil, err
	}
	r := &stocks.Reporter{
		Market:    m,
		Benchmark: *benchmark,
		Lookback:  *lookback,
		RiskFree:  *riskFree,
	}
	if *onDate != "" {
		if r.On, err = date.Parse(*onDate); err != nil {
			return nil, fmt.Errorf("invalid -on date: %w", err)
		}
	}
	return r, nil
}

// printMarkdown prints markdown to the terminal.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
