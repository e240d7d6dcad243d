package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func newTestSession(input string) (*session, *bytes.Buffer) {
	m := stocks.NewMarketData()
	start := date.New(2025, 1, 1)
	for i, v := range []int64{100, 110, 120} {
		m.Append("ABC", stocks.Point{Date: start.Add(i), Close: decimal.NewFromInt(v)})
		m.Append("BENCH", stocks.Point{Date: start.Add(i), Close: decimal.NewFromInt(1000 + 10*v)})
	}
	h := stocks.NewHoldings("BRL")
	h.Buy("ABC", 10, decimal.NewFromInt(100))

	var out bytes.Buffer
	s := &session{
		w:        &out,
		in:       bufio.NewScanner(strings.NewReader(input)),
		currency: "BRL",
		holdings: h,
		newReporter: func() (*stocks.Reporter, error) {
			return &stocks.Reporter{Market: m, Benchmark: "BENCH", On: date.New(2025, 1, 3)}, nil
		},
		print: func(md string) { out.WriteString(md) },
	}
	return s, &out
}

func TestSession_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdings.csv")
	s, out := newTestSession(strings.Join([]string{
		"h",
		"p",
		"bogus",
		"e XYZ 5 50.5",
		"sell",
		"beta",
		"s " + path,
		"x",
		"show",
	}, "\n"))
	s.path = "unused.csv"

	if err := s.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"## Stocks",
		"| ABC | 10 | 1000.00 | 100.00 |",
		"| ABC | 10 | 120.00 | 1200.00 | 200.00 | 20.00 |",
		`unknown option "bogus"`,
		`unknown option "sell"`,
		"## Beta",
		"Saved 2 holdings to " + path,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "## Stocks") != 1 {
		t.Errorf("show after exit was run:\n%s", got)
	}

	saved, err := stocks.LoadHoldings(path, "BRL")
	if err != nil {
		t.Fatalf("LoadHoldings() error = %v", err)
	}
	if e, ok := saved.Get("XYZ"); !ok || e.Quantity.Int() != 5 || !e.Invested.Equal(stocks.M(50.5, "BRL")) {
		t.Errorf("saved XYZ = %+v, %v", e, ok)
	}
	if s.path != path {
		t.Errorf("session path = %q, want %q", s.path, path)
	}
}

func TestSession_EditPrompts(t *testing.T) {
	s, out := newTestSession("abc\n3\n330\n")
	if err := s.edit(context.Background(), nil); err != nil {
		t.Fatalf("edit() error = %v", err)
	}
	if !strings.Contains(out.String(), "symbol: quantity: invested amount: ") {
		t.Errorf("edit() prompts = %q", out.String())
	}
	e, _ := s.holdings.Get("ABC")
	if e.Quantity.Int() != 3 || !e.AverageCost().Equal(stocks.M(110, "BRL")) {
		t.Errorf("ABC = %+v", e)
	}

	s, _ = newTestSession("abc\n")
	if err := s.edit(context.Background(), nil); err == nil {
		t.Error("edit() with missing input wants an error")
	}
}

func TestSession_Errors(t *testing.T) {
	s, out := newTestSession("beta zero\np\nx\n")
	s.newReporter = func() (*stocks.Reporter, error) { return nil, errors.New("no market") }
	if err := s.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.Count(out.String(), "Error: "); got != 2 {
		t.Errorf("got %d errors, want 2:\n%s", got, out.String())
	}
}

func TestSession_LoadMissing(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "none.csv")
	s, out := newTestSession("")
	s.path = filepath.Join(dir, "holdings.csv")

	if err := s.load(context.Background(), []string{missing}); err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if s.holdings.Len() != 0 || s.path != missing {
		t.Errorf("after load, holdings = %v path = %q, want none and %q", s.holdings.Symbols(), s.path, missing)
	}
	if !strings.Contains(out.String(), "warning, "+missing+" does not exist") {
		t.Errorf("load() output = %q", out.String())
	}

	if err := s.edit(context.Background(), []string{"XYZ", "1", "10"}); err != nil {
		t.Fatal(err)
	}
	if err := s.save(context.Background(), nil); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	h, err := stocks.LoadHoldings(missing, "BRL")
	if err != nil {
		t.Fatalf("LoadHoldings() error = %v", err)
	}
	if diff := cmp.Diff([]string{"XYZ"}, h.Symbols()); diff != "" {
		t.Errorf("saved symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	for token, want := range map[string]string{
		"b": "beta", "P": "portfolio", "h": "show", "edit": "edit", "l": "load", "s": "save", "x": "exit",
	} {
		o, ok := lookup(token)
		if !ok || o.name != want {
			t.Errorf("lookup(%q) = %q, %v want %q", token, o.name, ok, want)
		}
	}
	if _, ok := lookup("sell"); ok {
		t.Error(`lookup("sell") found an option`)
	}
}

func TestParseTrade(t *testing.T) {
	if _, _, err := parseTrade("ten", "1"); err == nil {
		t.Error("parseTrade(ten) wants an error")
	}
	if _, _, err := parseTrade("10", "one"); err == nil {
		t.Error("parseTrade(price one) wants an error")
	}
	q, p, err := parseTrade("10", "35.69")
	if err != nil || q != 10 || p.String() != "35.69" {
		t.Errorf("parseTrade() = %d %v %v", q, p, err)
	}
}
