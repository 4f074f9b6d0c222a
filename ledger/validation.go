package ledger

import (
	"math"

	"github.com/robinvdvleuten/amortize/date"
)

type validateOptions struct {
	tolerance float64
	currency  string
}

// ValidateOption configures Validate.
type ValidateOption func(*validateOptions)

// WithTolerance accepts a bank amount within eps of the loan amount instead
// of requiring an exact match. A zero eps keeps exact matching.
func WithTolerance(eps float64) ValidateOption {
	return func(o *validateOptions) {
		o.tolerance = eps
	}
}

// WithCurrency sets the currency used in mismatch messages.
func WithCurrency(code string) ValidateOption {
	return func(o *validateOptions) {
		o.currency = code
	}
}

// Validate checks that every row of every loan ledger has a bank
// transaction on the same day with the same amount. It stops at the first
// row that has none.
//
// Amounts are compared with == unless WithTolerance is given; both ledgers
// must already use the module's sign convention.
func Validate(bank *Ledger, loans []*Ledger, opts ...ValidateOption) error {
	o := validateOptions{currency: DefaultCurrency}
	for _, opt := range opts {
		opt(&o)
	}

	amounts := make(map[date.Date][]float64, len(bank.Rows))
	for _, r := range bank.Rows {
		amounts[r.Date] = append(amounts[r.Date], r.Amount)
	}

	for _, loan := range loans {
		for _, r := range loan.Rows {
			onDay, ok := amounts[r.Date]
			if !ok {
				return &MissingTransactionError{Loan: loan.Label, Date: r.Date}
			}
			if !o.matches(onDay, r.Amount) {
				return &AmountMismatchError{
					Loan:     loan.Label,
					Date:     r.Date,
					Amount:   r.Amount,
					Currency: o.currency,
					Bank:     onDay,
				}
			}
		}
	}

	return nil
}

func (o validateOptions) matches(candidates []float64, amount float64) bool {
	for _, c := range candidates {
		if c == amount {
			return true
		}
		if o.tolerance > 0 && math.Abs(c-amount) <= o.tolerance {
			return true
		}
	}
	return false
}
