package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search EODHD for a stock symbol" }
func (*searchCmd) Usage() string {
	return `stk search <term>

  Searches EODHD by code, name or ISIN, and lists the symbols to use in the holdings.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: search wants a term")
		return subcommands.ExitUsageError
	}
	client, err := newEODHD()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	results, err := client.Search(ctx, strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	t := stocks.Table{Name: "Search"}
	s := t.Append("Symbol", "Name", "Type", "Country", "Currency", "ISIN", "Previous Close")
	for _, r := range results {
		s.Row(r.Ticker(), r.Name, r.Type, r.Country, r.Currency, r.ISIN, r.PreviousClose)
	}
	printMarkdown(renderer.Markdown(t))
	return subcommands.ExitSuccess
}
