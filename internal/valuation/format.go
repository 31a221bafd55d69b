package valuation

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RoundPercent rounds a percentage to two decimal places for display.
func RoundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

func currencyFor(code string) *money.Currency {
	if cur := money.GetCurrency(code); cur != nil {
		return cur
	}
	return money.GetCurrency(money.USD)
}

// FormatMoney renders an amount with the currency's symbol, thousands
// separators and fraction digits, e.g. "$15,000.00". Unknown currency codes
// fall back to USD.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := currencyFor(currency)
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return formatMinorDigits(minor.Abs().String(), minor.IsNegative(), cur.Formatter())
	}
	return cur.Formatter().Format(minor.IntPart())
}

// formatMinorDigits lays out minor units held as a digit string the same
// way money.Formatter does for int64 amounts.
func formatMinorDigits(digits string, negative bool, f *money.Formatter) string {
	if len(digits) <= f.Fraction {
		digits = strings.Repeat("0", f.Fraction-len(digits)+1) + digits
	}
	if f.Thousand != "" {
		for i := len(digits) - f.Fraction - 3; i > 0; i -= 3 {
			digits = digits[:i] + f.Thousand + digits[i:]
		}
	}
	if f.Fraction > 0 {
		digits = digits[:len(digits)-f.Fraction] + f.Decimal + digits[len(digits)-f.Fraction:]
	}
	out := strings.Replace(f.Template, "1", digits, 1)
	out = strings.Replace(out, "$", f.Grapheme, 1)
	if negative {
		out = "-" + out
	}
	return out
}

// FormatSignedMoney is FormatMoney with a leading "+" on amounts that stay
// positive at the currency's precision.
func FormatSignedMoney(d decimal.Decimal, currency string) string {
	s := FormatMoney(d, currency)
	if d.Round(int32(currencyFor(currency).Fraction)).IsPositive() {
		return "+" + s
	}
	return s
}

// FormatPercent renders a percentage rounded to two places with a leading
// "+" on positive values, e.g. "+6.67%".
func FormatPercent(p float64) string {
	r := RoundPercent(p)
	s := strconv.FormatFloat(r, 'f', 2, 64) + "%"
	if r > 0 {
		return "+" + s
	}
	if r == 0 {
		// avoid "-0.00%" for tiny negative values
		return "0.00%"
	}
	return s
}
