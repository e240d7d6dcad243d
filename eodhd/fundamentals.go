package eodhd

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
)

// Fundamentals implements stocks.Market.
//
// Fields missing from the response are left to NaN.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (stocks.Fundamentals, error) {
	var jobj any
	if err := c.jwget(ctx, c.addr("/api/fundamentals/"+url.PathEscape(symbol), nil), &jobj); err != nil {
		return stocks.NewFundamentals(symbol), fmt.Errorf("fundamentals of %s: %w", symbol, err)
	}
	return parseFundamentals(symbol, jobj), nil
}

// parseFundamentals reads the fundamentals out of the decoded JSON payload.
func parseFundamentals(symbol string, jobj any) stocks.Fundamentals {
	f := stocks.NewFundamentals(symbol)
	if ebitda, revenue := number(jobj, "$.Highlights.EBITDA"), number(jobj, "$.Highlights.RevenueTTM"); revenue != 0 {
		f.EBITDAMargin = ebitda / revenue
	}
	f.ROE = number(jobj, "$.Highlights.ReturnOnEquityTTM")
	f.ROA = number(jobj, "$.Highlights.ReturnOnAssetsTTM")
	f.Beta = number(jobj, "$.Technicals.Beta")
	f.MovingAverage50 = number(jobj, `$.Technicals["50DayMA"]`)
	if shares := number(jobj, "$.SharesStats.SharesOutstanding"); shares > 0 {
		f.SharesOutstanding = int64(shares)
	}

	// quarterly balance sheets are keyed by their date, the latest one is used.
	if sheets, ok := lookup(jobj, "$.Financials.Balance_Sheet.quarterly").(map[string]any); ok && len(sheets) > 0 {
		keys := make([]string, 0, len(sheets))
		for k := range sheets {
			keys = append(keys, k)
		}
		latest := sheets[slices.Max(keys)]
		assets, liabilities := number(latest, "$.totalCurrentAssets"), number(latest, "$.totalCurrentLiabilities")
		if liabilities != 0 {
			f.CurrentRatio = assets / liabilities
		}
	}

	// "outstandingShares": {"quarterly": {"0": {"dateFormatted": "2024-06-30", "shares": 13044496000}, ...}}
	if quarters, ok := lookup(jobj, "$.outstandingShares.quarterly").(map[string]any); ok {
		for _, q := range quarters {
			on, err := date.Parse(fmt.Sprint(lookup(q, "$.dateFormatted")))
			shares := number(q, "$.shares")
			if err != nil || math.IsNaN(shares) {
				continue
			}
			f.SharesHistory = append(f.SharesHistory, stocks.SharesPoint{Date: on, Shares: int64(shares)})
		}
		slices.SortFunc(f.SharesHistory, func(a, b stocks.SharesPoint) int { return a.Date.Compare(b.Date) })
	}
	return f
}

// lookup returns the value at path, nil if there is none.
func lookup(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval
}

// number returns the number at path, NaN if there is none.
//
// EODHD encodes some numbers as strings.
func number(jobj any, path string) float64 {
	switch v := lookup(jobj, path).(type) {
	case float64:
		return v
	case string:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return math.NaN()
}
