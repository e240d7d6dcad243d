package stocks

import "math"

// Table is the output shape shared by all reports: a named list of sections,
// each made of a header and rows.
//
// Cells are strings, int64, float64 or bool. Floats are already rounded to
// the reporting precision, NaN stands for an undefined value.
type Table struct {
	Name     string
	Sections []Section
	Skipped  []string // symbols left out for lack of market data
}

// Section is a header followed by rows of cells.
type Section struct {
	Header []string
	Rows   [][]any
}

// Append adds a section and returns it for rows to be added.
func (t *Table) Append(header ...string) *Section {
	t.Sections = append(t.Sections, Section{Header: header})
	return &t.Sections[len(t.Sections)-1]
}

// Row adds a row of cells.
func (s *Section) Row(cells ...any) { s.Rows = append(s.Rows, cells) }

// cell helpers, converting report values at the emission boundary.

func money2(m Money) float64 { return m.Round2() }
func pct2(p Percent) float64 { return p.Round2() }
func num2(x float64) float64 { return round2(x) }

// nan is the cell for an undefined value.
var nan = math.NaN()
