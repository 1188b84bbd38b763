package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"0", "usd", "$0.00"},
		{"2800000", "USD", "$2,800,000.00"},
		{"10", "not-a-currency", "$10.00"},
	}
	for _, tt := range tests {
		got := Format(decimal.RequireFromString(tt.amount), tt.currency)
		if got != tt.want {
			t.Errorf("Format(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestIsKnownCurrency(t *testing.T) {
	if !IsKnownCurrency("COP") {
		t.Errorf("IsKnownCurrency(COP) = false")
	}
	if IsKnownCurrency("ZZZ") {
		t.Errorf("IsKnownCurrency(ZZZ) = true")
	}
}
