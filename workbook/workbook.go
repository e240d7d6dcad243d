// Package workbook exports report tables to an xlsx workbook, one sheet per table.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/etnz/stocks"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name excel accepts, in runes.
const maxSheetName = 31

// separator is the row written between two sections of a table.
var separator = []any{"-"}

// Write saves the tables into a new workbook at path.
func Write(path string, tables ...stocks.Table) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %q: %w", path, err)
	}
	return nil
}

// WriteTo writes the workbook of the tables to w.
func WriteTo(w io.Writer, tables ...stocks.Table) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func build(tables []stocks.Table) (*excelize.File, error) {
	if len(tables) == 0 {
		return nil, errors.New("workbook without any table")
	}
	f := excelize.NewFile()
	const defaultSheet = "Sheet1"
	keepDefault := false
	used := make(map[string]bool, len(tables))
	var first string
	for i, t := range tables {
		name := uniqueName(SheetName(t.Name), used)
		if i == 0 {
			first = name
		}
		if name == defaultSheet {
			keepDefault = true
		}
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := writeTable(f, name, t); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	if idx, err := f.GetSheetIndex(first); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// uniqueName returns name, or name suffixed with " (2)", " (3)", ... when it is already used.
//
// Sheet names are compared regardless of case, and stay within 31 runes.
func uniqueName(name string, used map[string]bool) string {
	unique := name
	for n := 2; used[strings.ToLower(unique)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if limit := maxSheetName - len(suffix); len(base) > limit {
			base = base[:limit]
		}
		unique = string(base) + suffix
	}
	used[strings.ToLower(unique)] = true
	return unique
}

// writeTable writes each section's header and rows, one separator row between sections.
func writeTable(f *excelize.File, sheet string, t stocks.Table) error {
	row := 1
	write := func(cells []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cell, &cells)
	}
	for i, s := range t.Sections {
		if i > 0 {
			if err := write(separator); err != nil {
				return err
			}
		}
		header := make([]any, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := write(header); err != nil {
			return err
		}
		for _, r := range s.Rows {
			if err := write(cells(r)); err != nil {
				return err
			}
		}
	}
	if len(t.Skipped) > 0 {
		skipped := []any{"Skipped"}
		for _, symbol := range t.Skipped {
			skipped = append(skipped, symbol)
		}
		if err := write(skipped); err != nil {
			return err
		}
	}
	return nil
}

// cells converts the values that have no spreadsheet equivalent.
func cells(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch v := v.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				out[i] = "n/a"
			} else {
				out[i] = v
			}
		case bool:
			if v {
				out[i] = "yes"
			} else {
				out[i] = "no"
			}
		default:
			out[i] = v
		}
	}
	return out
}

// SheetName returns a valid sheet name for a table name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "Report"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
