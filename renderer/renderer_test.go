package renderer

import (
	"math"
	"testing"

	"github.com/etnz/stocks"
	"github.com/google/go-cmp/cmp"
)

func TestMarkdown(t *testing.T) {
	tab := stocks.Table{Name: "Current", Skipped: []string{"NOPE.SA"}}
	s := tab.Append("Stock", "Shares", "Delta2 (%)")
	s.Row("ABC", int64(10), 20.0)
	s.Row("XYZ", int64(5), math.NaN())
	s = tab.Append("Total")
	s.Row(1200.5)

	want := `## Current

| Stock | Shares | Delta2 (%) |
|---|---|---|
| ABC | 10 | 20.00 |
| XYZ | 5 | n/a |

| Total |
|---|
| 1200.50 |

_Skipped for lack of market data: NOPE.SA_
`
	if diff := cmp.Diff(want, Markdown(tab)); diff != "" {
		t.Errorf("Markdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdown_Many(t *testing.T) {
	a := stocks.Table{Name: "A"}
	a.Append("x").Row(true)
	b := stocks.Table{Name: "B"}
	b.Append("y")

	want := `## A

| x |
|---|
| yes |

## B

| y |
|---|
`
	if diff := cmp.Diff(want, Markdown(a, b)); diff != "" {
		t.Errorf("Markdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1.005, "1.00"},
		{-3.256, "-3.26"},
		{math.NaN(), "n/a"},
		{int64(42), "42"},
		{false, "no"},
		{"a|b", `a\|b`},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Cell(tt.in); got != tt.want {
			t.Errorf("Cell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
