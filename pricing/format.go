// Package pricing holds the pure arithmetic behind the storefront: display
// formatting, class bulk discounts and checkout totals. Nothing here performs I/O.
package pricing

import (
	"math"
	"strings"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol returns the display symbol for c.
func Symbol(c models.Currency) string {
	switch c {
	case models.CurrencyUSD:
		return "$"
	case models.CurrencyNaira:
		return "₦"
	case models.CurrencyGBP:
		return "£"
	default:
		return strings.ToUpper(string(c)) + " "
	}
}

// Format renders amount in c with grouping and two fraction digits, e.g. "₦24,999.00".
func Format(amount decimal.Decimal, c models.Currency) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	f, _ := amount.Round(2).Float64()
	p := message.NewPrinter(language.English)
	return sign + Symbol(c) + p.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// MinorUnits converts amount to the smallest unit of its currency (cents, kobo, pence).
// ok is false when the result does not fit in an int64.
func MinorUnits(amount decimal.Decimal) (minor int64, ok bool) {
	if amount.IsNegative() {
		return 0, true
	}
	shifted := amount.Round(2).Shift(2)
	if shifted.GreaterThan(maxMinorUnits) {
		return 0, false
	}
	return shifted.IntPart(), true
}
