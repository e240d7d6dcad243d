package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar granularity.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod reads a period name, long or short form.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}

// Identifier returns a short name of the period containing d.
//
// Two dates share an identifier if and only if they belong to the same period.
func (p Period) Identifier(d Date) string {
	switch p {
	case Daily:
		return d.String()
	case Weekly:
		y, w := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case Monthly:
		return d.Format("2006-01")
	case Yearly:
		return d.Format("2006")
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Lookback returns the first day of a lookback window of that many periods ending on d.
func (p Period) Lookback(d Date, n int) Date {
	switch p {
	case Daily:
		return d.Add(-n)
	case Weekly:
		return d.Add(-7 * n)
	case Monthly:
		return New(d.y, d.m-time.Month(n), d.d)
	case Yearly:
		return d.AddYears(-n)
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}
