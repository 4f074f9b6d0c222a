package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/date"
)

func ledgerOf(t *testing.T, label string, rows ...Row) *Ledger {
	t.Helper()
	l := New(label)
	for _, r := range rows {
		assert.NoError(t, l.Append(r))
	}
	return l
}

func row(on string, amount float64) Row {
	return Row{Date: date.MustParse(on), Amount: amount}
}

func TestValidate(t *testing.T) {
	bank := ledgerOf(t, "12345",
		row("2023-03-01", 55.25),
		row("2023-03-01", -200.00),
		row("2023-03-15", 1000.00),
	)

	t.Run("Matching", func(t *testing.T) {
		loan := ledgerOf(t, "alice", row("2023-03-01", -200.00))
		assert.NoError(t, Validate(bank, []*Ledger{loan}))
	})

	t.Run("AmountMismatch", func(t *testing.T) {
		loan := ledgerOf(t, "alice", row("2023-03-01", -200.01))
		err := Validate(bank, []*Ledger{loan})

		var mismatch *AmountMismatchError
		assert.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "alice", mismatch.Loan)
		assert.Equal(t, date.MustParse("2023-03-01"), mismatch.Date)
		assert.Equal(t, -200.01, mismatch.Amount)
		assert.Equal(t, []float64{55.25, -200.00}, mismatch.Bank)
		assert.Contains(t, err.Error(), "-$200.01")
	})

	t.Run("MissingTransaction", func(t *testing.T) {
		loan := ledgerOf(t, "bob", row("2023-03-02", -200.00))
		err := Validate(bank, []*Ledger{loan})

		var missing *MissingTransactionError
		assert.True(t, errors.As(err, &missing))
		assert.Equal(t, "bob", missing.Loan)
		assert.Equal(t, "could not find transaction by bob on 2023-03-02", err.Error())
	})

	t.Run("FailsOnFirstLoan", func(t *testing.T) {
		good := ledgerOf(t, "alice", row("2023-03-15", 1000))
		bad1 := ledgerOf(t, "bob", row("2023-04-01", 1))
		bad2 := ledgerOf(t, "carol", row("2023-05-01", 1))
		err := Validate(bank, []*Ledger{good, bad1, bad2})

		var missing *MissingTransactionError
		assert.True(t, errors.As(err, &missing))
		assert.Equal(t, "bob", missing.Loan)
	})

	t.Run("Tolerance", func(t *testing.T) {
		loan := ledgerOf(t, "alice", row("2023-03-01", -200.01))
		assert.NoError(t, Validate(bank, []*Ledger{loan}, WithTolerance(0.015)))
	})

	t.Run("NoLoans", func(t *testing.T) {
		assert.NoError(t, Validate(bank, nil))
	})
}
