package date

import (
	"testing"
	"time"
)

func TestPeriodIdentifier(t *testing.T) {
	d := New(2025, time.September, 10)
	tests := []struct {
		p    Period
		want string
	}{
		{Daily, "2025-09-10"},
		{Weekly, "2025-W37"},
		{Monthly, "2025-09"},
		{Yearly, "2025"},
	}
	for _, tt := range tests {
		if got := tt.p.Identifier(d); got != tt.want {
			t.Errorf("%v.Identifier(%v) = %q, want %q", tt.p, d, got, tt.want)
		}
	}
}

func TestPeriodLookback(t *testing.T) {
	d := New(2025, time.March, 15)
	tests := []struct {
		p    Period
		n    int
		want Date
	}{
		{Daily, 2, New(2025, time.March, 13)},
		{Weekly, 1, New(2025, time.March, 8)},
		{Monthly, 3, New(2024, time.December, 15)},
		{Yearly, 1, New(2024, time.March, 15)},
	}
	for _, tt := range tests {
		if got := tt.p.Lookback(d, tt.n); got != tt.want {
			t.Errorf("%v.Lookback(%v, %d) = %v, want %v", tt.p, d, tt.n, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"day": Daily, "W": Weekly, "monthly": Monthly, "y": Yearly} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %v, %v want %v", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod(\"fortnight\") want error")
	}
}
