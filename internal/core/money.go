// Package core holds the dashboard's domain records and the pure helpers
// used to present them.
//
// This file formats monetary amounts the way an en-US locale shows
// currency: symbol first, grouped thousands, the currency's standard number
// of fraction digits and a leading minus for negative values.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbolPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMoney formats amount in the given ISO currency.
//
// Examples:
//
//	FormatMoney(1234.5, "USD")  -> "$1,234.50"
//	FormatMoney(-42, "EUR")     -> "-€42.00"
//	FormatMoney(1000, "JPY")    -> "¥1,000"
//	FormatMoney(5, "")          -> "$5.00"
func FormatMoney(amount decimal.Decimal, code string) string {
	symbol, scale := currencyStyle(normalizeCurrency(code))
	rounded := amount.Round(scale)
	digits := groupThousands(rounded.Abs().StringFixed(scale))
	if rounded.IsNegative() {
		return "-" + symbol + digits
	}
	return symbol + digits
}

// currencyStyle returns the display prefix and fraction digits for code.
// Unknown codes are shown as "XYZ " with two decimals.
func currencyStyle(code string) (string, int32) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " ", 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	symbol := symbolPrinter.Sprint(currency.Symbol(unit))
	if symbol == "" {
		symbol = code
	}
	if r := []rune(symbol); unicode.IsLetter(r[len(r)-1]) {
		symbol += " "
	}
	return symbol, int32(scale)
}

func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
