package interest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/rates"
)

func flat(rate float64, from, to string) rates.Timeline {
	return rates.Timeline{{Start: date.MustParse(from), End: date.MustParse(to), Rate: rate}}
}

func loanOf(t *testing.T, rows ...ledger.Row) *ledger.Ledger {
	t.Helper()
	l := ledger.New("alice")
	for _, r := range rows {
		assert.NoError(t, l.Append(r))
	}
	return l
}

func tx(on string, amount float64, desc string) ledger.Row {
	return ledger.Row{Date: date.MustParse(on), Amount: amount, Description: desc}
}

func TestAccrueSinglePostingPeriod(t *testing.T) {
	// A draw one posting period before the posting day yields exactly one
	// interest charge of 31 days.
	loan := loanOf(t, tx("2023-01-16", 1000, "advance"))
	timeline := flat(0.06, "2023-01-01", "2023-12-31")

	got, err := Accrue(context.Background(), loan, timeline, 15, WithThrough(date.MustParse("2023-02-15")))
	assert.NoError(t, err)

	assert.Equal(t, 2, len(got.Rows))
	assert.Equal(t, ledger.Draw, got.Rows[0].Kind)
	assert.Equal(t, "advance", got.Rows[0].Description)
	assert.Equal(t, 1000.0, got.Rows[0].Balance)

	charge := got.Rows[1]
	assert.Equal(t, ledger.Interest, charge.Kind)
	assert.Equal(t, date.MustParse("2023-02-15"), charge.Date)
	assert.Equal(t, 5.10, charge.Amount)
	assert.Equal(t, 1005.10, charge.Balance)
	assert.Equal(t, "Interest charge @ 6.00%", charge.Description)

	assert.Equal(t, 1005.10, got.CurrentBalance)
	assert.Equal(t, 1000.0, got.TotalPrincipal)
	assert.True(t, math.Abs(got.TotalInterest-1000*0.06/365*31) < 1e-9)
}

func TestAccrueCompoundsMonthly(t *testing.T) {
	loan := loanOf(t, tx("2023-01-01", 1000, ""))
	timeline := flat(0.06, "2023-01-01", "2023-12-31")

	got, err := Accrue(context.Background(), loan, timeline, 15, WithThrough(date.MustParse("2023-02-15")))
	assert.NoError(t, err)

	// The draw lands on the 1st, so the 15th of the same month already
	// posts 15 days; February's charge then accrues on the larger balance.
	assert.Equal(t, 3, len(got.Rows))
	first := 1000 * 0.06 / 365 * 15
	second := (1000 + first) * 0.06 / 365 * 31
	assert.Equal(t, ledger.Round2(first), got.Rows[1].Amount)
	assert.Equal(t, ledger.Round2(second), got.Rows[2].Amount)
	assert.Equal(t, ledger.Round2(1000+first+second), got.CurrentBalance)
}

func TestAccruePaymentsAndRateChanges(t *testing.T) {
	loan := loanOf(t,
		tx("2023-01-10", 5000, "advance"),
		tx("2023-02-01", -1000, "repayment"),
		tx("2023-02-01", -500, "repayment"),
		tx("2023-03-20", -3500, "payoff"),
	)
	timeline := rates.Timeline{
		{Start: date.MustParse("2023-01-01"), End: date.MustParse("2023-02-14"), Rate: 0.05},
		{Start: date.MustParse("2023-02-15"), End: date.MustParse("2023-12-31"), Rate: 0.0525},
	}

	got, err := Accrue(context.Background(), loan, timeline, 15, WithThrough(date.MustParse("2023-05-31")))
	assert.NoError(t, err)

	kinds := make([]ledger.Kind, len(got.Rows))
	for i, r := range got.Rows {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []ledger.Kind{
		ledger.Draw,     // 01-10
		ledger.Interest, // 01-15
		ledger.Payment,  // 02-01
		ledger.Payment,  // 02-01
		ledger.Interest, // 02-15
		ledger.Interest, // 03-15
		ledger.Payment,  // 03-20
		ledger.Interest, // 04-15
		ledger.Interest, // 05-15, charged on the interest left after the payoff
	}, kinds)

	assert.Equal(t, "Interest charge @ 5.00%", got.Rows[1].Description)
	assert.Equal(t, "Interest charge @ 5.25%", got.Rows[4].Description)
	assert.Equal(t, 0.0, got.TotalPrincipal)

	// Balance continuity within rounding tolerance.
	for i := 1; i < len(got.Rows); i++ {
		prev, cur := got.Rows[i-1], got.Rows[i]
		assert.True(t, math.Abs(prev.Balance+cur.Amount-cur.Balance) <= 0.01,
			"row %d: %v + %v != %v", i, prev.Balance, cur.Amount, cur.Balance)
	}
}

func TestAccrueOverpaidLoanEarnsNothing(t *testing.T) {
	loan := loanOf(t, tx("2023-01-01", 100, ""), tx("2023-01-02", -300, ""))
	got, err := Accrue(context.Background(), loan, flat(0.05, "2023-01-01", "2023-03-31"), 15,
		WithThrough(date.MustParse("2023-03-31")))
	assert.NoError(t, err)

	// One day on +100 accrues about 0.0137, which posts on the 15th; nothing
	// accrues once the balance turns negative.
	interestRows := 0
	for _, r := range got.Rows {
		if r.Kind == ledger.Interest {
			interestRows++
		}
	}
	assert.Equal(t, 1, interestRows)
	assert.Equal(t, 0.01, got.Rows[2].Amount)
}

func TestAccrueBelowThresholdCarriesOver(t *testing.T) {
	// 10 * 0.01 / 365 is about 0.00027 a day: the 15th of January holds
	// 0.0041 and is skipped, February's posting day carries it on.
	loan := loanOf(t, tx("2023-01-01", 10, ""))
	got, err := Accrue(context.Background(), loan, flat(0.01, "2023-01-01", "2023-12-31"), 15,
		WithThrough(date.MustParse("2023-02-15")))
	assert.NoError(t, err)

	assert.Equal(t, 2, len(got.Rows))
	assert.Equal(t, date.MustParse("2023-02-15"), got.Rows[1].Date)
	assert.Equal(t, 0.01, got.Rows[1].Amount)
}

func TestAccrueDeterministic(t *testing.T) {
	loan := loanOf(t, tx("2023-01-03", 2500, ""), tx("2023-06-01", -700, ""))
	timeline := flat(0.0725, "2023-01-01", "2023-12-31")
	through := WithThrough(date.MustParse("2023-12-31"))

	a, err := Accrue(context.Background(), loan, timeline, 28, through)
	assert.NoError(t, err)
	b, err := Accrue(context.Background(), loan, timeline, 28, through)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAccrueErrors(t *testing.T) {
	ctx := context.Background()
	timeline := flat(0.05, "2023-01-01", "2023-01-31")

	t.Run("EmptyLoan", func(t *testing.T) {
		_, err := Accrue(ctx, ledger.New("empty"), timeline, 15)
		var empty *EmptyResultError
		assert.True(t, errors.As(err, &empty))
		assert.Equal(t, "empty", empty.Loan)
	})

	t.Run("InvalidPostingDay", func(t *testing.T) {
		loan := loanOf(t, tx("2023-01-05", 100, ""))
		_, err := Accrue(ctx, loan, timeline, 32)
		var invalid *InvalidPostingDayError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("PastTimelineEnd", func(t *testing.T) {
		loan := loanOf(t, tx("2023-01-05", 100, ""))
		_, err := Accrue(ctx, loan, timeline, 15, WithThrough(date.MustParse("2023-02-10")))
		var oor *rates.DateOutOfRangeError
		assert.True(t, errors.As(err, &oor))
		assert.Equal(t, date.MustParse("2023-02-01"), oor.Date)
	})

	t.Run("TransactionAfterThrough", func(t *testing.T) {
		loan := loanOf(t, tx("2023-01-05", 1000, "advance"), tx("2023-03-20", -1000, "payoff"))
		_, err := Accrue(ctx, loan, flat(0.05, "2023-01-01", "2023-12-31"), 15,
			WithThrough(date.MustParse("2023-03-14")))
		var unsimulated *UnsimulatedTransactionError
		assert.True(t, errors.As(err, &unsimulated), "got %v", err)
		assert.Equal(t, "alice", unsimulated.Loan)
		assert.Equal(t, date.MustParse("2023-03-20"), unsimulated.Date)
		assert.Equal(t, date.MustParse("2023-03-14"), unsimulated.Through)
	})

	t.Run("BeforeTimelineStart", func(t *testing.T) {
		loan := loanOf(t, tx("2022-12-20", 100, ""))
		_, err := Accrue(ctx, loan, timeline, 15, WithThrough(date.MustParse("2023-01-10")))
		var oor *rates.DateOutOfRangeError
		assert.True(t, errors.As(err, &oor))
		assert.Equal(t, date.MustParse("2022-12-20"), oor.Date)
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		loan := loanOf(t, tx("2023-01-01", 100, ""))
		_, err := Accrue(cctx, loan, timeline, 15, WithThrough(date.MustParse("2023-01-31")))
		assert.IsError(t, err, context.Canceled)
	})
}

func TestDailyInterest(t *testing.T) {
	assert.Equal(t, 0.0, DailyInterest(-1000, 0.05))
	assert.Equal(t, 1000*(0.0365/365), DailyInterest(1000, 0.0365))
}
