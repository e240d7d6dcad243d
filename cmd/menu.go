package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

type menuCmd struct{}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "interactive menu over the holdings" }
func (*menuCmd) Usage() string {
	return `stk menu

  Starts an interactive session over the holdings. Changes are kept in memory
  until saved. Type ? for the list of options.
`
}

func (*menuCmd) SetFlags(f *flag.FlagSet) {}

func (*menuCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := loadHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	s := &session{
		w:           os.Stdout,
		in:          bufio.NewScanner(os.Stdin),
		path:        *holdingsFile,
		currency:    *currency,
		holdings:    h,
		newReporter: newReporter,
		print:       printMarkdown,
	}
	if err := s.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// session is the state of an interactive menu.
type session struct {
	w           io.Writer
	in          *bufio.Scanner
	path        string // default holdings file for load and save
	currency    string
	holdings    *stocks.Holdings
	newReporter func() (*stocks.Reporter, error)
	print       func(markdown string)

	reporter *stocks.Reporter // created on first use
}

// option is an entry of the menu dispatch table.
type option struct {
	name, short string
	usage       string
	run         func(s *session, ctx context.Context, args []string) error
}

// errExit ends the session.
var errExit = errors.New("exit")

// options is the dispatch table of the menu.
var options = []option{
	{"beta", "b", "beta [sessions]: compare the variations with the benchmark", (*session).beta},
	{"portfolio", "p", "portfolio: value the holdings at their latest price", (*session).portfolio},
	{"show", "h", "show: list the holdings", (*session).show},
	{"edit", "e", "edit [symbol quantity invested]: set a holding", (*session).edit},
	{"load", "l", "load [file]: reload the holdings", (*session).load},
	{"save", "s", "save [file]: save the holdings", (*session).save},
	{"exit", "x", "exit: leave the menu, unsaved changes are lost", func(*session, context.Context, []string) error { return errExit }},
}

// lookup finds an option by name or shortcut.
func lookup(token string) (option, bool) {
	token = strings.ToLower(token)
	for _, o := range options {
		if token == o.name || token == o.short {
			return o, true
		}
	}
	return option{}, false
}

func (s *session) help() {
	for _, o := range options {
		fmt.Fprintf(s.w, "  %s) %s\n", o.short, o.usage)
	}
}

// run reads options until exit or the end of input.
//
// Errors of an option are printed, and the session goes on.
func (s *session) run(ctx context.Context) error {
	s.help()
	for {
		fmt.Fprint(s.w, "stk> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.w)
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "?" {
			s.help()
			continue
		}
		o, ok := lookup(fields[0])
		if !ok {
			fmt.Fprintf(s.w, "unknown option %q, type ? for help\n", fields[0])
			continue
		}
		err := o.run(s, ctx, fields[1:])
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fmt.Fprintf(s.w, "Error: %v\n", err)
		}
	}
}

// ask prompts for a value.
func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.w, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) report() (*stocks.Reporter, error) {
	if s.reporter == nil {
		r, err := s.newReporter()
		if err != nil {
			return nil, err
		}
		s.reporter = r
	}
	return s.reporter, nil
}

func (s *session) beta(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil || n <= 0 {
			return fmt.Errorf("invalid number of sessions %q", args[0])
		}
	}
	r, err := s.report()
	if err != nil {
		return err
	}
	b, err := r.Beta(ctx, s.holdings, n)
	if err != nil {
		return err
	}
	s.print(renderer.Markdown(b.Table()))
	return nil
}

func (s *session) portfolio(ctx context.Context, _ []string) error {
	r, err := s.report()
	if err != nil {
		return err
	}
	c, err := r.Current(ctx, s.holdings)
	if err != nil {
		return err
	}
	s.print(renderer.Markdown(c.Table()))
	return nil
}

func (s *session) show(context.Context, []string) error {
	s.print(renderer.Markdown(stocks.NewStocksReport(s.holdings).Table()))
	return nil
}

// edit replaces a holding, prompting for the fields not given as arguments.
func (s *session) edit(_ context.Context, args []string) error {
	prompts := []string{"symbol: ", "quantity: ", "invested amount: "}
	fields := make([]string, len(prompts))
	for i, p := range prompts {
		if i < len(args) {
			fields[i] = args[i]
			continue
		}
		v, err := s.ask(p)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	e, err := parseHolding(s.holdings.Currency(), fields[0], fields[1], fields[2])
	if err != nil {
		return err
	}
	return s.holdings.Replace(e)
}

func (s *session) load(_ context.Context, args []string) error {
	path := s.path
	if len(args) > 0 {
		path = args[0]
	}
	h, err := stocks.LoadHoldings(path, s.currency)
	if errors.Is(err, stocks.ErrNotFound) {
		s.holdings, s.path = h, path
		fmt.Fprintf(s.w, "warning, %s does not exist, starting with empty holdings\n", path)
		return nil
	}
	if err != nil {
		return err
	}
	s.holdings, s.path = h, path
	fmt.Fprintf(s.w, "Loaded %d holdings from %s\n", h.Len(), path)
	return nil
}

func (s *session) save(_ context.Context, args []string) error {
	path := s.path
	if len(args) > 0 {
		path = args[0]
	}
	if err := stocks.SaveHoldings(path, s.holdings); err != nil {
		return err
	}
	s.path = path
	fmt.Fprintf(s.w, "Saved %d holdings to %s\n", s.holdings.Len(), path)
	return nil
}
