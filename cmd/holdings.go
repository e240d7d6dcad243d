package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the holdings file with the default portfolio" }
func (*initCmd) Usage() string {
	return `stk init [-f]

  Creates the holdings file with the default portfolio:
  1000 PETR3.SA for 35690.00 and 1000 VALE3.SA for 68890.00.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Overwrite an existing holdings file.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*holdingsFile); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists, use -f to overwrite it\n", *holdingsFile)
		return subcommands.ExitFailure
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *holdingsFile, err)
		return subcommands.ExitFailure
	}
	if err := saveHoldings(stocks.DefaultHoldings()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s\n", *holdingsFile)
	return subcommands.ExitSuccess
}

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the holdings and their average cost" }
func (*showCmd) Usage() string {
	return `stk show

  Lists the holdings: shares, total invested and average cost.
`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (*showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Markdown(stocks.NewStocksReport(h).Table()))
	return subcommands.ExitSuccess
}

// trade is the common part of buy and sell.
type trade struct {
	name, synopsis, verb string
	apply                func(h *stocks.Holdings, symbol string, quantity int64, price decimal.Decimal) error
}

func (c *trade) Name() string     { return c.name }
func (c *trade) Synopsis() string { return c.synopsis }
func (c *trade) Usage() string {
	return fmt.Sprintf(`stk %s <symbol> <quantity> <unit price>

  %s.
`, c.name, c.synopsis)
}

func (*trade) SetFlags(f *flag.FlagSet) {}

func (c *trade) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "Error: %s wants a symbol, a quantity and a unit price\n", c.name)
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)
	quantity, price, err := parseTrade(f.Arg(1), f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.apply(h, symbol, quantity, price); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveHoldings(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	e, _ := h.Get(symbol)
	fmt.Printf("%s %d %s at %s, holding %s for %s\n", c.verb, quantity, e.Symbol, price, e.Quantity, e.Invested)
	return subcommands.ExitSuccess
}

func newBuyCmd() *trade {
	return &trade{name: "buy", synopsis: "buy shares of a stock", verb: "Bought", apply: (*stocks.Holdings).Buy}
}

func newSellCmd() *trade {
	return &trade{name: "sell", synopsis: "sell shares of a stock", verb: "Sold", apply: (*stocks.Holdings).Sell}
}

// parseTrade parses a quantity of shares and a unit price.
func parseTrade(quantity, price string) (int64, decimal.Decimal, error) {
	q, err := strconv.ParseInt(quantity, 10, 64)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("invalid quantity %q: %w", quantity, err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("invalid price %q: %w", price, err)
	}
	return q, p, nil
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove stocks from the holdings" }
func (*deleteCmd) Usage() string {
	return `stk delete <symbol>...

  Removes the stocks from the holdings, whatever their quantity.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: delete wants at least one symbol")
		return subcommands.ExitUsageError
	}
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, symbol := range f.Args() {
		h.Delete(symbol)
	}
	if err := saveHoldings(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type editCmd struct{}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "set the quantity and invested amount of a stock" }
func (*editCmd) Usage() string {
	return `stk edit <symbol> <quantity> <invested amount>

  Replaces the holding of a stock, creating it if needed.
`
}

func (*editCmd) SetFlags(f *flag.FlagSet) {}

func (*editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: edit wants a symbol, a quantity and an invested amount")
		return subcommands.ExitUsageError
	}
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	e, err := parseHolding(h.Currency(), f.Arg(0), f.Arg(1), f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := h.Replace(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveHoldings(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseHolding parses the fields of a holding.
func parseHolding(currency, symbol, quantity, invested string) (stocks.Holding, error) {
	q, amount, err := parseTrade(quantity, invested)
	if err != nil {
		return stocks.Holding{}, err
	}
	return stocks.NewHolding(symbol, q, stocks.M(amount, currency)), nil
}
