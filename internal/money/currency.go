// Package money formats budget amounts in the user's currency and converts
// between the supported currencies using a static rate table.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used whenever an unknown code is requested.
const DefaultCurrency = "USD"

// Currency describes a supported currency. Rate is the number of units that
// equal one US dollar.
type Currency struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.NewFromInt(1)},
	{Code: "IRR", Symbol: "ریال", Name: "Iranian Rial", Rate: decimal.NewFromInt(100000)},
	{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.92")},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.78")},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.NewFromInt(150)},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.5")},
}

// Supported lists the currencies in display order.
func Supported() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// IsSupported reports whether code names a currency in the table.
func IsSupported(code string) bool {
	_, ok := find(code)
	return ok
}

// Lookup returns the currency for code, falling back to US dollars.
func Lookup(code string) Currency {
	if c, ok := find(code); ok {
		return c
	}
	c, _ := find(DefaultCurrency)
	return c
}

func find(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// SecondaryFor returns the companion currency shown next to primary:
// rials for dollar users, dollars for everyone else.
func SecondaryFor(primary string) string {
	if Lookup(primary).Code == "USD" {
		return "IRR"
	}
	return "USD"
}

// Convert moves amount from one currency to another through the dollar rate.
func Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	src := Lookup(from)
	dst := Lookup(to)
	if src.Code == dst.Code {
		return amount
	}
	return amount.Div(src.Rate).Mul(dst.Rate)
}
