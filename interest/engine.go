// Package interest replays a loan's transactions day by day against a rate
// timeline and posts the accrued interest once a month.
//
// Interest is simple daily interest at rate/365 on the running balance. It
// accumulates silently and is charged to the loan on the posting day of each
// month, so interest charged one month earns interest the next.
package interest

import (
	"context"
	"fmt"
	"math"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/rates"
	"github.com/robinvdvleuten/amortize/telemetry"
)

// PostingThreshold is the smallest accrued amount that gets posted. Anything
// at or below it is carried to the next posting day.
const PostingThreshold = 0.005

const daysPerYear = 365

// EmptyResultError is returned when accrual produced no rows, which happens
// for a loan without transactions.
type EmptyResultError struct {
	Loan string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: interest accrual produced no rows", e.Loan)
}

// InvalidPostingDayError is returned for a posting day outside 1..31.
type InvalidPostingDayError struct {
	Day int
}

func (e *InvalidPostingDayError) Error() string {
	return fmt.Sprintf("invalid posting day %d, expected 1 to 31", e.Day)
}

// UnsimulatedTransactionError is returned when a loan has transactions
// dated after the last simulated day. Accruing anyway would leave them out
// of the balance.
type UnsimulatedTransactionError struct {
	Loan    string
	Date    date.Date // first transaction after Through
	Through date.Date
}

func (e *UnsimulatedTransactionError) Error() string {
	return fmt.Sprintf("%s: transaction on %s is after the last simulated day %s", e.Loan, e.Date, e.Through)
}

func (e *UnsimulatedTransactionError) GetDate() date.Date { return e.Date }
func (e *UnsimulatedTransactionError) GetLoan() string    { return e.Loan }

type options struct {
	through date.Date
}

// Option configures Accrue.
type Option func(*options)

// WithThrough sets the last simulated day. It defaults to today.
func WithThrough(d date.Date) Option {
	return func(o *options) {
		o.through = d
	}
}

// Accrue replays loan from its first transaction through today (or the day
// given with WithThrough) and returns a new ledger holding the loan's
// transactions interleaved with monthly interest charges.
//
// On each day the day's transactions are applied first, then a day of
// interest accrues on the resulting balance, then the accrued interest is
// posted if the day of month equals postingDay. Only interest that increases
// what is owed accrues; an overpaid loan earns nothing. A posting day beyond
// the end of a short month is skipped for that month.
//
// Every simulated day must be covered by timeline, and no transaction of
// loan may come after the last simulated day.
func Accrue(ctx context.Context, loan *ledger.Ledger, timeline rates.Timeline, postingDay int, opts ...Option) (*ledger.Ledger, error) {
	if postingDay < 1 || postingDay > 31 {
		return nil, &InvalidPostingDayError{Day: postingDay}
	}

	o := options{through: date.Today()}
	for _, opt := range opts {
		opt(&o)
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("interest.accrue %s", loan.Label))
	defer timer.End()

	start, ok := loan.FirstDate()
	if !ok {
		return nil, &EmptyResultError{Loan: loan.Label}
	}
	for _, r := range loan.Rows {
		if r.Date.After(o.through) {
			return nil, &UnsimulatedTransactionError{Loan: loan.Label, Date: r.Date, Through: o.through}
		}
	}

	s := &state{
		out:   ledger.New(loan.Label),
		byDay: loan.ByDate(),
	}

	for d := range date.Days(start, o.through) {
		if d.Day() == 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if err := s.step(d, timeline, postingDay); err != nil {
			return nil, err
		}
	}

	if len(s.out.Rows) == 0 {
		return nil, &EmptyResultError{Loan: loan.Label}
	}

	s.out.TotalInterest = s.totalInterest
	s.out.TotalPrincipal = s.totalPrincipal
	return s.out, nil
}

// state is the running simulation. balance and accrued are never rounded;
// only the values written into rows are.
type state struct {
	out   *ledger.Ledger
	byDay map[date.Date][]ledger.Row

	balance        float64
	accrued        float64
	totalInterest  float64
	totalPrincipal float64
}

func (s *state) step(d date.Date, timeline rates.Timeline, postingDay int) error {
	for _, tx := range s.byDay[d] {
		if err := s.apply(d, tx); err != nil {
			return err
		}
	}

	rate, err := timeline.RateAt(d)
	if err != nil {
		return err
	}
	s.accrued += DailyInterest(s.balance, rate)

	if d.Day() == postingDay && math.Abs(s.accrued) > PostingThreshold {
		return s.post(d, rate)
	}
	return nil
}

func (s *state) apply(d date.Date, tx ledger.Row) error {
	s.balance += tx.Amount
	s.totalPrincipal += tx.Amount

	kind := ledger.Payment
	if tx.Amount > 0 {
		kind = ledger.Draw
	}

	return s.out.Append(ledger.Row{
		Date:        d,
		Kind:        kind,
		Description: tx.Description,
		Amount:      ledger.Round2(tx.Amount),
		Balance:     ledger.Round2(s.balance),
	})
}

func (s *state) post(d date.Date, rate float64) error {
	s.balance += s.accrued
	err := s.out.Append(ledger.Row{
		Date:        d,
		Kind:        ledger.Interest,
		Description: Description(rate),
		Amount:      ledger.Round2(s.accrued),
		Balance:     ledger.Round2(s.balance),
	})
	s.totalInterest += s.accrued
	s.accrued = 0
	return err
}

// DailyInterest returns one day of interest on balance at the annual rate.
// Negative results, which would reduce what is owed, are dropped.
func DailyInterest(balance, rate float64) float64 {
	daily := balance * (rate / daysPerYear)
	if daily < 0 {
		return 0
	}
	return daily
}

// Description labels an interest row with the rate in effect on the
// posting day, e.g. "Interest charge @ 5.25%".
func Description(rate float64) string {
	return fmt.Sprintf("Interest charge @ %.2f%%", rate*100)
}
