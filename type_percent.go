package stocks

import (
	"fmt"
	"math"
)

// Percent is a percentage, 12.5 means 12.5%.
type Percent float64

// Undefined is the Percent of a ratio with a zero denominator.
var Undefined = Percent(math.NaN())

// IsDefined reports whether p is not the Undefined percent.
func (p Percent) IsDefined() bool { return !math.IsNaN(float64(p)) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

// Round2 returns the percent rounded to 2 decimals, NaN stays NaN.
func (p Percent) Round2() float64 { return round2(float64(p)) }

func (p Percent) String() string {
	if !p.IsDefined() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	if !p.IsDefined() {
		return "n/a"
	}
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*100) / 100
}
