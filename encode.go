package stocks

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// csvHeader is the first row of a holdings CSV file.
var csvHeader = []string{"symbol", "quantity", "invested_amount"}

// LoadHoldings reads holdings from a file, JSON if the name ends with ".json", CSV otherwise.
//
// If the file does not exist, it returns empty holdings and an error matching ErrNotFound.
func LoadHoldings(path, currency string) (*Holdings, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewHoldings(currency), fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var h *Holdings
	if isJSON(path) {
		h, err = DecodeJSON(f, currency)
	} else {
		h, err = DecodeCSV(f, currency)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode holdings %q: %w", path, err)
	}
	return h, nil
}

// SaveHoldings writes holdings to a file, in the format given by its extension.
//
// The file is replaced atomically: on error the previous content is untouched.
func SaveHoldings(path string, h *Holdings) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("cannot save holdings %q: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if isJSON(path) {
		err = EncodeJSON(tmp, h)
	} else {
		err = EncodeCSV(tmp, h)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("cannot save holdings %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot save holdings %q: %w", path, err)
	}
	return nil
}

func isJSON(path string) bool { return strings.EqualFold(filepath.Ext(path), ".json") }

// DecodeCSV reads holdings from CSV rows symbol,quantity,invested_amount after a header row.
func DecodeCSV(r io.Reader, currency string) (*Holdings, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	h := NewHoldings(currency)
	// the first row is the header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return h, nil
		}
		return nil, err
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return h, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(row) < len(csvHeader) {
			return nil, fmt.Errorf("line %d: want %d fields got %d", line, len(csvHeader), len(row))
		}
		e, err := parseHolding(row[0], row[1], row[2], currency)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := h.Replace(e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
}

// EncodeCSV writes holdings as CSV with a header row, in symbol order.
func EncodeCSV(w io.Writer, h *Holdings) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for e := range h.All() {
		if err := writer.Write([]string{e.Symbol, e.Quantity.String(), e.Invested.value.String()}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// DecodeJSON reads holdings from a JSON object {"symbol": [quantity, invested_amount]}.
func DecodeJSON(r io.Reader, currency string) (*Holdings, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var content map[string][]json.Number
	if err := dec.Decode(&content); err != nil {
		return nil, err
	}
	h := NewHoldings(currency)
	for symbol, v := range content {
		if len(v) != 2 {
			return nil, fmt.Errorf("%s: want [quantity, invested_amount] got %d values", symbol, len(v))
		}
		e, err := parseHolding(symbol, v[0].String(), v[1].String(), currency)
		if err != nil {
			return nil, err
		}
		if err := h.Replace(e); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// EncodeJSON writes holdings as a JSON object {"symbol": [quantity, invested_amount]}.
func EncodeJSON(w io.Writer, h *Holdings) error {
	content := make(map[string][2]json.Number, h.Len())
	for e := range h.All() {
		content[e.Symbol] = [2]json.Number{json.Number(e.Quantity.String()), json.Number(e.Invested.value.String())}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(content)
}

func parseHolding(symbol, quantity, invested, currency string) (Holding, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(quantity), 10, 64)
	if err != nil {
		return Holding{}, fmt.Errorf("%s: invalid quantity %q: %w", symbol, quantity, err)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(invested))
	if err != nil {
		return Holding{}, fmt.Errorf("%s: invalid invested amount %q: %w", symbol, invested, err)
	}
	return NewHolding(symbol, q, M(v, currency)), nil
}
