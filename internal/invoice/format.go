package invoice

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Fixed formats v with exactly two decimals and no grouping, as attached
// to records sent to the invoice service.
func Fixed(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Money formats v for display: two decimals with thousands separators.
func Money(v float64) string {
	return printer.Sprintf("%.2f", v)
}
