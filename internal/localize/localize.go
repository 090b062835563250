// Package localize renders numbers in the dot-thousands, comma-decimal
// convention used on every human-facing surface.
package localize

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultDecimals is the number of fractional digits shown by Format2.
const DefaultDecimals = 2

// Round rounds x half-to-even at the given number of decimal places.
// The shortest decimal representation of x is rounded, so 2.675 becomes
// 2.68 rather than inheriting binary floating point error.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).RoundBank(int32(places)).InexactFloat64()
}

// Number formats x with exactly decimals fractional digits, using "." to
// group thousands and "," before the fraction: 1234.5 -> "1.234,50".
func Number(x float64, decimals int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "+Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	if decimals < 0 {
		decimals = 0
	}

	d := decimal.NewFromFloat(x).RoundBank(int32(decimals))
	neg := d.IsNegative()
	abs := d.Abs()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strings.ReplaceAll(humanize.BigComma(abs.Truncate(0).BigInt()), ",", "."))

	if decimals > 0 {
		fixed := abs.StringFixedBank(int32(decimals))
		if i := strings.IndexByte(fixed, '.'); i >= 0 {
			b.WriteByte(',')
			b.WriteString(fixed[i+1:])
		}
	}
	return b.String()
}

// Format2 formats x with two fractional digits.
func Format2(x float64) string {
	return Number(x, DefaultDecimals)
}

// Integer formats a count with dot thousands separators and no fraction.
func Integer(n int) string {
	return Number(float64(n), 0)
}
