package eodhd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/google/go-cmp/cmp"
)

const fundamentalsPayload = `{
  "Highlights": {"EBITDA": 250, "RevenueTTM": 1000, "ReturnOnEquityTTM": 0.2, "ReturnOnAssetsTTM": "0.08"},
  "Technicals": {"Beta": 1.3, "50DayMA": 36.5},
  "SharesStats": {"SharesOutstanding": null},
  "Financials": {"Balance_Sheet": {"quarterly": {
    "2024-03-31": {"totalCurrentAssets": "100", "totalCurrentLiabilities": "100"},
    "2024-06-30": {"totalCurrentAssets": "300", "totalCurrentLiabilities": "200"}
  }}},
  "outstandingShares": {"quarterly": {
    "0": {"dateFormatted": "2024-06-30", "shares": 2000},
    "1": {"dateFormatted": "2024-03-31", "shares": 1000}
  }}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/eod/ABC.SA", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `[
			{"date": "2025-01-03", "open": 11, "high": 12, "low": 10, "close": 11.5, "adjusted_close": 11.5, "volume": 300},
			{"date": "2025-01-02", "open": 10, "high": 11, "low": 9, "close": 10.5, "adjusted_close": 10.5, "volume": 200}
		]`)
	})
	mux.HandleFunc("/api/eod/EMPTY.SA", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/api/fundamentals/ABC.SA", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fundamentalsPayload)
	})
	mux.HandleFunc("/api/search/petro", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"Code": "PETR3", "Exchange": "SA", "Name": "Petroleo Brasileiro", "Currency": "BRL", "previousClose": 35.7, "previousCloseDate": "2025-01-03"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	srv := newTestServer(t)
	return &Client{APIKey: "secret", BaseURL: srv.URL, HTTP: srv.Client()}
}

func TestClient_History(t *testing.T) {
	c := newTestClient(t)
	s, err := c.History(context.Background(), "ABC.SA", date.New(2025, 1, 1), date.New(2025, 1, 3))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if diff := cmp.Diff([]float64{10.5, 11.5}, s.Closes()); diff != "" {
		t.Errorf("History() closes mismatch (-want +got):\n%s", diff)
	}
	if s[1].Volume != 300 || s[1].Date != date.New(2025, 1, 3) {
		t.Errorf("History() last point = %+v", s[1])
	}
}

func TestClient_History_Errors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	from, to := date.New(2025, 1, 1), date.New(2025, 1, 3)

	if _, err := c.History(ctx, "EMPTY.SA", from, to); !errors.Is(err, stocks.ErrDataUnavailable) {
		t.Errorf("History(EMPTY.SA) error = %v, want ErrDataUnavailable", err)
	}
	if _, err := c.History(ctx, "UNKNOWN.SA", from, to); !errors.Is(err, stocks.ErrDataUnavailable) {
		t.Errorf("History(UNKNOWN.SA) error = %v, want ErrDataUnavailable", err)
	}
	c.APIKey = "wrong"
	_, err := c.History(ctx, "ABC.SA", from, to)
	if err == nil || errors.Is(err, stocks.ErrDataUnavailable) {
		t.Errorf("History() with a wrong key error = %v, want a non data error", err)
	}
}

func TestClient_Fundamentals(t *testing.T) {
	c := newTestClient(t)
	f, err := c.Fundamentals(context.Background(), "ABC.SA")
	if err != nil {
		t.Fatalf("Fundamentals() error = %v", err)
	}
	want := stocks.Fundamentals{
		Symbol: "ABC.SA",
		SharesHistory: []stocks.SharesPoint{
			{Date: date.New(2024, 3, 31), Shares: 1000},
			{Date: date.New(2024, 6, 30), Shares: 2000},
		},
		EBITDAMargin:    0.25,
		ROE:             0.2,
		ROA:             0.08,
		CurrentRatio:    1.5,
		MovingAverage50: 36.5,
		Beta:            1.3,
	}
	if diff := cmp.Diff(want, f, cmp.AllowUnexported(date.Date{})); diff != "" {
		t.Errorf("Fundamentals() mismatch (-want +got):\n%s", diff)
	}
	if n, err := f.Shares(); err != nil || n != 2000 {
		t.Errorf("Shares() = %d, %v want 2000", n, err)
	}
}

func TestParseFundamentals_Missing(t *testing.T) {
	f := parseFundamentals("X", map[string]any{})
	for name, v := range map[string]float64{
		"EBITDAMargin":    f.EBITDAMargin,
		"ROE":             f.ROE,
		"ROA":             f.ROA,
		"CurrentRatio":    f.CurrentRatio,
		"MovingAverage50": f.MovingAverage50,
		"Beta":            f.Beta,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
	if f.SharesOutstanding != 0 || len(f.SharesHistory) != 0 {
		t.Errorf("shares = %d %v, want none", f.SharesOutstanding, f.SharesHistory)
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t)
	results, err := c.Search(context.Background(), "petro")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Ticker() != "PETR3.SA" {
		t.Errorf("Search() = %+v", results)
	}
}

// countingTransport counts the requests actually sent.
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	const body = `[1, 2, 3]`
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": {"application/json"}},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func TestDiskCache(t *testing.T) {
	base := &countingTransport{}
	client := &http.Client{Transport: &diskCache{base: base, dir: t.TempDir(), period: date.Daily}}

	for i := range 3 {
		resp, err := client.Get("http://example.com/api/eod/ABC.SA")
		if err != nil {
			t.Fatalf("Get() #%d error = %v", i, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || string(body) != "[1, 2, 3]" {
			t.Errorf("Get() #%d body = %q, %v", i, body, err)
		}
	}
	if n := base.calls.Load(); n != 1 {
		t.Errorf("base transport called %d times, want 1", n)
	}
}
