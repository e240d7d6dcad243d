// Package eodhd implements a stocks.Market on top of the EOD Historical Data API.
//
// See https://eodhd.com/financial-apis/ for the API documentation.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the address of the EODHD API.
const DefaultBaseURL = "https://eodhd.com"

// Client fetches market data from EODHD.
type Client struct {
	APIKey  string
	BaseURL string       // DefaultBaseURL if empty
	HTTP    *http.Client // http.DefaultClient if nil
}

var _ stocks.Market = (*Client)(nil)

// New returns a Client for apiKey whose responses are cached on disk for the day.
func New(apiKey string) *Client {
	return &Client{APIKey: apiKey, BaseURL: DefaultBaseURL, HTTP: NewCachingClient("", date.Daily)}
}

// addr builds the URL of an API endpoint.
func (c *Client) addr(path string, query url.Values) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("fmt", "json")
	query.Set("api_token", c.APIKey)
	return strings.TrimSuffix(base, "/") + path + "?" + query.Encode()
}

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("cannot http GET %v%v: %v: %w", req.URL.Host, req.URL.Path, resp.Status, stocks.ErrDataUnavailable)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, data)
}

// History implements stocks.Market.
//
// symbol is an EODHD ticker, "SYMBOL.EXCHANGE", e.g. PETR3.SA or BVSP.INDX.
func (c *Client) History(ctx context.Context, symbol string, from, to date.Date) (stocks.Series, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2017-01-05&to=2017-02-10
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	query := url.Values{"from": {from.String()}, "to": {to.String()}}
	addr := c.addr("/api/eod/"+url.PathEscape(symbol), query)

	type Info struct {
		Date   date.Date       `json:"date"`
		Open   decimal.Decimal `json:"open"`
		High   decimal.Decimal `json:"high"`
		Low    decimal.Decimal `json:"low"`
		Close  decimal.Decimal `json:"close"`
		Volume float64         `json:"volume"`
	}
	content := make([]Info, 0)
	if err := c.jwget(ctx, addr, &content); err != nil {
		return nil, fmt.Errorf("history of %s: %w", symbol, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("history of %s from %s to %s: %w", symbol, from, to, stocks.ErrDataUnavailable)
	}
	points := make([]stocks.Point, 0, len(content))
	for _, info := range content {
		points = append(points, stocks.Point{
			Date:   info.Date,
			Open:   info.Open,
			High:   info.High,
			Low:    info.Low,
			Close:  info.Close,
			Volume: int64(info.Volume),
		})
	}
	return stocks.NewSeries(points...), nil
}

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Ticker returns the symbol to use in History and Fundamentals.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search looks up tickers by code, name or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.jwget(ctx, c.addr("/api/search/"+url.PathEscape(term), nil), &results); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return results, nil
}
