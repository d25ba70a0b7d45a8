// Package money keeps currency arithmetic in decimal so totals do not pick
// up binary floating point drift.
package money

import "github.com/shopspring/decimal"

// Times returns price × n rounded to cents.
func Times(price float64, n int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
}

// Sum adds amounts and rounds the result to cents.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// Format renders an amount with exactly two decimals, e.g. "45.00".
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
