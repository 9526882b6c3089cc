package invoice

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	smallNumbers = []string{
		"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
		"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

	scales = []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "Billion"},
		{1_000_000, "Million"},
		{1_000, "Thousand"},
	}
)

// AmountInWords spells out the absolute value of an amount in dollars and
// cents, upper-cased: 120.5 becomes "ONE HUNDRED TWENTY DOLLARS AND FIFTY CENTS".
// Amounts whose dollars do not fit in an int64 yield "".
func AmountInWords(amount float64) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return ""
	}

	abs := decimal.NewFromFloat(amount).Abs().Round(2)
	if !abs.Truncate(0).BigInt().IsInt64() {
		return ""
	}
	dollars := abs.IntPart()
	cents := abs.Sub(decimal.NewFromInt(dollars)).Shift(2).IntPart()

	parts := []string{}
	if dollars == 0 {
		parts = append(parts, "Zero Dollars")
	} else {
		parts = append(parts, IntToWords(dollars)+" Dollars")
	}
	if cents > 0 {
		parts = append(parts, "and "+IntToWords(cents)+" Cents")
	}

	return strings.ToUpper(strings.Join(parts, " "))
}

// IntToWords spells out a non-negative integer in English.
func IntToWords(n int64) string {
	switch {
	case n < 0:
		return ""
	case n < 20:
		return smallNumbers[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + smallNumbers[n%10]
	case n < 1000:
		if n%100 == 0 {
			return smallNumbers[n/100] + " Hundred"
		}
		return smallNumbers[n/100] + " Hundred " + IntToWords(n%100)
	}

	for _, scale := range scales {
		if n < scale.value {
			continue
		}
		words := IntToWords(n/scale.value) + " " + scale.name
		if n%scale.value != 0 {
			words += " " + IntToWords(n%scale.value)
		}
		return words
	}
	return ""
}
