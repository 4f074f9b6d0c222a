package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "CAD"

// FormatCurrency renders amount with the currency's symbol and grouping,
// e.g. -1200.9 CAD is "-$1,200.90". The amount is rounded to the currency's
// minor unit first; truncating the float would turn 5.1 into 5.09.
func FormatCurrency(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	fraction := 2
	if c := money.GetCurrency(code); c != nil {
		fraction = c.Fraction
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
