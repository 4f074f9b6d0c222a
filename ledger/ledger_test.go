package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/date"
)

func TestAppendTracksCurrentBalance(t *testing.T) {
	l := New("alice")
	assert.NoError(t, l.Append(Row{Date: date.MustParse("2023-01-01"), Kind: Draw, Amount: 1000, Balance: 1000}))
	assert.NoError(t, l.Append(Row{Date: date.MustParse("2023-01-01"), Kind: Payment, Amount: -200, Balance: 800}))
	assert.Equal(t, 800.0, l.CurrentBalance)

	first, ok := l.FirstDate()
	assert.True(t, ok)
	assert.Equal(t, date.MustParse("2023-01-01"), first)
}

func TestAppendRejectsOutOfOrder(t *testing.T) {
	l := New("alice")
	assert.NoError(t, l.Append(Row{Date: date.MustParse("2023-02-01"), Balance: 10}))

	err := l.Append(Row{Date: date.MustParse("2023-01-31"), Balance: 20})
	var oerr *OrderError
	assert.True(t, errors.As(err, &oerr))
	assert.Equal(t, 1, len(l.Rows))
	assert.Equal(t, 10.0, l.CurrentBalance)
}

func TestFirstDateEmpty(t *testing.T) {
	_, ok := New("empty").FirstDate()
	assert.False(t, ok)
}

func TestByDate(t *testing.T) {
	l := New("bank")
	d1, d2 := date.MustParse("2023-03-01"), date.MustParse("2023-03-02")
	assert.NoError(t, l.Append(Row{Date: d1, Amount: 1}))
	assert.NoError(t, l.Append(Row{Date: d1, Amount: 2}))
	assert.NoError(t, l.Append(Row{Date: d2, Amount: 3}))

	m := l.ByDate()
	assert.Equal(t, 2, len(m[d1]))
	assert.Equal(t, 2.0, m[d1][1].Amount)
	assert.Equal(t, 1, len(m[d2]))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "payment", Payment.String())
	assert.Equal(t, "draw", Draw.String())
	assert.Equal(t, "interest", Interest.String())
	assert.Equal(t, "unknown", Kind(42).String())

	assert.Equal(t, Draw, ParseKind("loan"))
	assert.Equal(t, Payment, ParseKind("payment"))
	assert.Equal(t, Unknown, ParseKind("transfer"))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{5.104, 5.10},
		{5.105000001, 5.11},
		{-2.466, -2.47},
		{0.125, 0.12}, // exact tie, rounds to even
		{2.675, 2.67}, // stored just below the tie
		{1000, 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5, ""))
	assert.Equal(t, "-$1,200.90", FormatCurrency(-1200.9, "CAD"))
	assert.Equal(t, "$5.10", FormatCurrency(5.1, "CAD"))
	assert.Equal(t, "-$200.01", FormatCurrency(-200.01, "CAD"))
}
