package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	cent     = decimal.RequireFromString("0.01")
)

// Formatter renders amounts with locale aware digit grouping.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for lang. Grouping follows lang; pass
// language.English for Latin digits.
func NewFormatter(lang language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(lang)}
}

// Format renders amount with the currency symbol and the currency's standard
// number of decimals. Positive dollar amounts below one cent keep five
// decimals so they do not collapse to zero.
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	cur := Lookup(code)
	scale := standardScale(cur.Code)
	if cur.Code == "USD" && amount.IsPositive() && amount.LessThan(cent) {
		scale = 5
	}
	return f.withSymbol(cur, amount, scale)
}

// FormatCompact abbreviates thousands and millions. Rial amounts use the
// Farsi unit words.
func (f *Formatter) FormatCompact(amount decimal.Decimal, code string) string {
	cur := Lookup(code)
	abs := amount.Abs()
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	if cur.Code == "IRR" {
		switch {
		case abs.GreaterThanOrEqual(million):
			return sign + abs.Div(million).StringFixed(1) + " میلیون ریال"
		case abs.GreaterThanOrEqual(thousand):
			return sign + abs.Div(thousand).StringFixed(1) + " هزار ریال"
		default:
			return sign + abs.StringFixed(2) + " ریال"
		}
	}
	switch {
	case abs.GreaterThanOrEqual(million):
		return sign + cur.Symbol + abs.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return sign + cur.Symbol + abs.Div(thousand).StringFixed(1) + "K"
	case cur.Code == "USD" && abs.IsPositive() && abs.LessThan(cent):
		return sign + cur.Symbol + abs.StringFixed(5)
	default:
		return sign + cur.Symbol + abs.StringFixed(2)
	}
}

// Dual renders amount in code and, in parentheses, its compact equivalent in
// the companion currency.
func (f *Formatter) Dual(amount decimal.Decimal, code string) (string, string) {
	primary := Lookup(code).Code
	secondary := SecondaryFor(primary)
	converted := Convert(amount, primary, secondary)
	return f.Format(amount, primary), "(" + f.FormatCompact(converted, secondary) + ")"
}

func (f *Formatter) withSymbol(cur Currency, amount decimal.Decimal, scale int) string {
	abs := amount.Abs().Round(int32(scale))
	digits := f.printer.Sprint(number.Decimal(abs.InexactFloat64(), number.Scale(scale)))
	sign := ""
	if amount.IsNegative() && !abs.IsZero() {
		sign = "-"
	}
	if cur.Code == "IRR" {
		return sign + digits + " " + cur.Symbol
	}
	return sign + cur.Symbol + digits
}

func standardScale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}
