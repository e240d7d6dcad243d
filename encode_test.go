package stocks

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadHoldings(t *testing.T) {
	want := NewHoldings("BRL")
	want.Replace(NewHolding("PETR3.SA", 1000, BRL(35690)))
	want.Replace(NewHolding("VALE3.SA", 1000, BRL(68890.25)))
	want.Replace(NewHolding("ITUB4.SA", 0, BRL(0)))

	for _, name := range []string{"portfolio.csv", "portfolio.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := SaveHoldings(path, want); err != nil {
				t.Fatalf("SaveHoldings() error = %v", err)
			}
			got, err := LoadHoldings(path, "BRL")
			if err != nil {
				t.Fatalf("LoadHoldings() error = %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("LoadHoldings() = %v, want %v", got.Symbols(), want.Symbols())
			}
		})
	}
}

func TestLoadHoldings_NotFound(t *testing.T) {
	h, err := LoadHoldings(filepath.Join(t.TempDir(), "missing.csv"), "BRL")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadHoldings() error = %v, want ErrNotFound", err)
	}
	if h == nil || h.Len() != 0 {
		t.Errorf("LoadHoldings() want an empty store")
	}
}

func TestDecodeCSV(t *testing.T) {
	in := "symbol,quantity,invested_amount\nPETR3.SA,1000,35690.0\nVALE3.SA, 10, 688.9\n"
	h, err := DecodeCSV(strings.NewReader(in), "BRL")
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	got, ok := h.Get("VALE3.SA")
	if !ok || !got.Equal(NewHolding("VALE3.SA", 10, BRL(688.9))) {
		t.Errorf("DecodeCSV() VALE3.SA = %v", got)
	}
	if !got.AverageCost().Equal(BRL(68.89)) {
		t.Errorf("AverageCost() = %v", got.AverageCost())
	}
}

func TestDecodeCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"fractional quantity": "symbol,quantity,invested_amount\nABC,1.5,10\n",
		"invalid amount":      "symbol,quantity,invested_amount\nABC,1,ten\n",
		"missing field":       "symbol,quantity,invested_amount\nABC,1\n",
		"negative quantity":   "symbol,quantity,invested_amount\nABC,-1,10\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeCSV(strings.NewReader(in), "BRL"); err == nil {
				t.Errorf("DecodeCSV(%q) want error", in)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	in := `{"PETR3.SA": [1000, 35690.0], "VALE3.SA": [1000, 68890]}`
	h, err := DecodeJSON(strings.NewReader(in), "BRL")
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if !h.Equal(DefaultHoldings()) {
		t.Errorf("DecodeJSON() = %v, want the default holdings", h.Symbols())
	}
	if _, err := DecodeJSON(strings.NewReader(`{"ABC": [1]}`), "BRL"); err == nil {
		t.Error("DecodeJSON(short array) want error")
	}
}

func TestEncodeCSV(t *testing.T) {
	var b strings.Builder
	if err := EncodeCSV(&b, DefaultHoldings()); err != nil {
		t.Fatal(err)
	}
	want := "symbol,quantity,invested_amount\nPETR3.SA,1000,35690\nVALE3.SA,1000,68890\n"
	if b.String() != want {
		t.Errorf("EncodeCSV() = %q, want %q", b.String(), want)
	}
}
