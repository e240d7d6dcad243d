package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

func testAnalyst() (*stocks.Reporter, *stocks.Holdings) {
	m := stocks.NewMarketData()
	start := date.New(2025, 1, 1)
	for i, v := range []int64{100, 110, 120} {
		m.Append("ABC", stocks.Point{Date: start.Add(i), Close: decimal.NewFromInt(v)})
	}
	h := stocks.NewHoldings("BRL")
	h.Buy("ABC", 10, decimal.NewFromInt(100))
	return &stocks.Reporter{Market: m, On: date.New(2025, 1, 3)}, h
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary(AnalystFunctions(testAnalyst()))
	ctx := context.Background()

	resp := lib(ctx, &genai.FunctionCall{ID: "1", Name: "Report", Args: map[string]any{"name": "current"}})
	out, ok := resp.Response["output"].(string)
	if !ok {
		t.Fatalf("Report response = %v, want an output", resp.Response)
	}
	if !strings.Contains(out, "## Current") || !strings.Contains(out, "| ABC | 10 | 120.00 | 1200.00 | 200.00 | 20.00 |") {
		t.Errorf("Report output:\n%s", out)
	}
	if resp.ID != "1" || resp.Name != "Report" {
		t.Errorf("Report response id, name = %q %q", resp.ID, resp.Name)
	}

	resp = lib(ctx, &genai.FunctionCall{ID: "2", Name: "Report", Args: map[string]any{"name": "horoscope"}})
	if _, ok := resp.Response["error"].(string); !ok {
		t.Errorf("unknown report response = %v, want an error", resp.Response)
	}

	resp = lib(ctx, &genai.FunctionCall{ID: "3", Name: "Nope"})
	if _, ok := resp.Response["error"].(string); !ok {
		t.Errorf("unknown function response = %v, want an error", resp.Response)
	}
}

func TestFutureValueFunc(t *testing.T) {
	_, h := testAnalyst()
	resp := futureValueFunc(h).Call(context.Background(), "1", map[string]any{"rate": 0.01, "periods": 2.0})
	out, _ := resp.Response["output"].(string)
	if !strings.Contains(out, "| 2 | 1020.10 |") {
		t.Errorf("FutureValue output:\n%s", out)
	}
}

func TestTopicFunc(t *testing.T) {
	resp := topicFunc().Call(context.Background(), "1", map[string]any{"topic": "reports"})
	if out, _ := resp.Response["output"].(string); out == "" {
		t.Errorf("Topic response = %v", resp.Response)
	}
}

func TestNewDeclaration(t *testing.T) {
	decls := NewDeclaration(AnalystFunctions(testAnalyst()))
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "Report,FutureValue,Topic" {
		t.Errorf("declarations = %s", got)
	}

	e := NewTrader()
	if d := e.Declaration(); d.Name != "Trader" || d.Parameters.Required[0] != "question" {
		t.Errorf("Trader declaration = %+v", d)
	}
	f := newFacilitator(NewTrader(), NewAnalyst(testAnalyst()))
	if n := len(f.Config.Tools[0].FunctionDeclarations); n != 2 {
		t.Errorf("facilitator has %d experts, want 2", n)
	}
}

func TestExpert_AskNotStarted(t *testing.T) {
	if _, err := NewExpert("x", "y").Ask(context.Background(), &genai.Part{Text: "hi"}); err == nil {
		t.Error("Ask() before Start() wants an error")
	}
}
