package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/amortize/date"
)

// Error types for ledger construction and cross-ledger validation.

// OrderError is returned when a row is appended before the ledger's last row.
type OrderError struct {
	Label string
	Date  date.Date
	Last  date.Date
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: row dated %s appended after %s", e.Label, e.Date, e.Last)
}

// MissingTransactionError is returned when the bank has no transaction at
// all on the day a loan records one.
type MissingTransactionError struct {
	Loan string
	Date date.Date
}

func (e *MissingTransactionError) Error() string {
	return fmt.Sprintf("could not find transaction by %s on %s", e.Loan, e.Date)
}

func (e *MissingTransactionError) GetDate() date.Date { return e.Date }
func (e *MissingTransactionError) GetLoan() string    { return e.Loan }

// AmountMismatchError is returned when the bank has transactions on the day
// a loan records one, but none with the loan's amount.
type AmountMismatchError struct {
	Loan     string
	Date     date.Date
	Amount   float64
	Currency string
	Bank     []float64 // amounts the bank recorded that day
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("could not find transaction by %s on %s with amount %s",
		e.Loan, e.Date, FormatCurrency(e.Amount, e.Currency))
}

func (e *AmountMismatchError) GetDate() date.Date { return e.Date }
func (e *AmountMismatchError) GetLoan() string    { return e.Loan }
