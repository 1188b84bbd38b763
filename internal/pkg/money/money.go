// Package money formats fund amounts for people: reports, CSV summaries and
// the operator CLI. Arithmetic stays in decimal.Decimal.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a user has not picked one.
const DefaultCurrency = "USD"

// IsKnownCurrency reports whether code is an ISO 4217 code known to go-money.
func IsKnownCurrency(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(code)) != nil
}

// Format renders amount in the given currency, e.g. "$1,234.50".
// Unknown currencies fall back to DefaultCurrency.
func Format(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if !IsKnownCurrency(code) {
		code = DefaultCurrency
	}
	// the constructor is the only way to get a never nil currency
	cur := gomoney.New(0, code).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
