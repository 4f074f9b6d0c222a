// Package ledger holds balance-tracked lists of dated money movements for a
// bank account or a loan, and cross-checks loan ledgers against the bank.
//
// Amounts follow one convention across the module: a positive amount
// increases the principal owed (a draw or an interest charge), a negative
// amount reduces it (a payment). Loaders convert their sources to this
// convention; nothing in this package renormalizes signs.
//
// Example usage:
//
//	bank, _ := loader.LoadBankCSV(ctx, "export.csv")
//	loan, _ := loader.LoadLoan(ctx, "loans/alice.json")
//	if err := ledger.Validate(bank, []*ledger.Ledger{loan}); err != nil {
//	    var mismatch *ledger.AmountMismatchError
//	    if errors.As(err, &mismatch) {
//	        fmt.Println(mismatch.Loan, mismatch.Date)
//	    }
//	}
package ledger

import (
	"fmt"
	"strconv"

	"github.com/robinvdvleuten/amortize/date"
)

// Kind classifies a ledger row.
type Kind int

const (
	Unknown Kind = iota
	Payment
	Draw
	Interest
)

var kindNames = [...]string{
	Unknown:  "unknown",
	Payment:  "payment",
	Draw:     "draw",
	Interest: "interest",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// ParseKind maps a type label from a loan definition to a Kind. Labels the
// original spreadsheets used ("loan") are accepted as aliases.
func ParseKind(s string) Kind {
	switch s {
	case "payment":
		return Payment
	case "draw", "loan":
		return Draw
	case "interest":
		return Interest
	default:
		return Unknown
	}
}

// Row is one dated movement. Balance is the running balance after the row.
type Row struct {
	Date        date.Date
	Kind        Kind
	Description string
	Amount      float64
	Balance     float64
}

// Ledger is an ordered list of rows for one account or loan.
type Ledger struct {
	Label          string
	Rows           []Row
	CurrentBalance float64
	TotalInterest  float64
	TotalPrincipal float64
}

// New creates an empty ledger.
func New(label string) *Ledger {
	return &Ledger{Label: label}
}

// Append adds a row at the end of the ledger and makes its running balance
// the current balance. Rows must be appended in date order.
func (l *Ledger) Append(row Row) error {
	if n := len(l.Rows); n > 0 && row.Date.Before(l.Rows[n-1].Date) {
		return &OrderError{Label: l.Label, Date: row.Date, Last: l.Rows[n-1].Date}
	}
	l.Rows = append(l.Rows, row)
	l.CurrentBalance = row.Balance
	return nil
}

// FirstDate returns the date of the earliest row, false when the ledger is
// empty.
func (l *Ledger) FirstDate() (date.Date, bool) {
	if len(l.Rows) == 0 {
		return date.Date{}, false
	}
	return l.Rows[0].Date, true
}

// LastDate returns the date of the latest row, false when the ledger is
// empty.
func (l *Ledger) LastDate() (date.Date, bool) {
	if len(l.Rows) == 0 {
		return date.Date{}, false
	}
	return l.Rows[len(l.Rows)-1].Date, true
}

// ByDate groups the ledger's rows by day, keeping their order within a day.
func (l *Ledger) ByDate() map[date.Date][]Row {
	m := make(map[date.Date][]Row, len(l.Rows))
	for _, r := range l.Rows {
		m[r.Date] = append(m[r.Date], r)
	}
	return m
}

// Round2 rounds x to cents the way a decimal printout of x would: to the
// nearest value, ties to even on the exact binary value. Accrual keeps the
// unrounded balance and only rounds what it writes into rows.
func Round2(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return r
}

func (r Row) String() string {
	return fmt.Sprintf("%s %-8s %10.2f %12.2f %s", r.Date, r.Kind, r.Amount, r.Balance, r.Description)
}
