// Package renderer turns API responses into Markdown reports.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "USD"

// Currency formats decimal amounts for one ISO 4217 currency.
type Currency struct {
	cur money.Currency
}

// NewCurrency returns a formatter for code. Unknown codes fall back to go-money's defaults.
func NewCurrency(code string) Currency {
	if code == "" {
		code = DefaultCurrency
	}
	// money.New always yields a non-nil currency, even for unknown codes.
	return Currency{cur: *money.New(0, code).Currency()}
}

// Format renders amount rounded to the currency's minor unit, e.g. "$1,234.50".
func (c Currency) Format(amount decimal.Decimal) string {
	fraction := int32(c.cur.Fraction)
	minor := amount.Round(fraction).Shift(fraction).IntPart()
	return c.cur.Formatter().Format(minor)
}
