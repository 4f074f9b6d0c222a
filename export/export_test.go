package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/rates"
)

func sampleTimeline() rates.Timeline {
	return rates.Timeline{
		{Start: date.MustParse("2023-01-15"), End: date.MustParse("2023-02-20"), Rate: 0.05},
		{Start: date.MustParse("2023-02-21"), End: date.MustParse("2023-04-14"), Rate: 0.0525},
	}
}

func sampleLedger() *ledger.Ledger {
	l := ledger.New("alice")
	_ = l.Append(ledger.Row{Date: date.MustParse("2023-01-16"), Kind: ledger.Draw, Description: "car, used", Amount: 1000, Balance: 1000})
	_ = l.Append(ledger.Row{Date: date.MustParse("2023-02-15"), Kind: ledger.Interest, Description: "Interest charge @ 5.00%", Amount: 4.25, Balance: 1004.25})
	_ = l.Append(ledger.Row{Date: date.MustParse("2023-03-01"), Kind: ledger.Payment, Amount: -200, Balance: 804.25})
	return l
}

func TestWriteTimeline(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteTimeline(&buf, sampleTimeline()))
	assert.Equal(t, "start_date,end_date,interest_rate\n"+
		"2023-01-15,2023-02-20,0.05\n"+
		"2023-02-21,2023-04-14,0.0525\n", buf.String())
}

func TestWriteLedger(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteLedger(&buf, sampleLedger()))
	assert.Equal(t, "date,type,description,amount,balance\n"+
		"2023-01-16,draw,\"car, used\",1000.00,1000.00\n"+
		"2023-02-15,interest,Interest charge @ 5.00%,4.25,1004.25\n"+
		"2023-03-01,payment,,-200.00,804.25\n", buf.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.045", FormatRate(0.045))
	assert.Equal(t, "0", FormatRate(0))
	assert.Equal(t, "5.10", FormatAmount(5.1))
	assert.Equal(t, "-0.01", FormatAmount(-0.01))
}

func TestLedgerFile(t *testing.T) {
	assert.Equal(t, "alice.csv", LedgerFile("alice"))
	assert.Equal(t, "Car_loan_2023.csv", LedgerFile("Car loan / 2023"))
	assert.Equal(t, "ledger.csv", LedgerFile("../"))
}

func TestExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := New(dir)
	ctx := context.Background()

	assert.Equal(t, 0, len(e.Existing(TimelineFile)))

	path, err := e.Timeline(ctx, sampleTimeline())
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rates.csv"), path)

	path, err = e.Ledger(ctx, sampleLedger())
	assert.NoError(t, err)
	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(b), "804.25")

	assert.Equal(t, []string{filepath.Join(dir, "rates.csv"), filepath.Join(dir, "alice.csv")},
		e.Existing(TimelineFile, LedgerFile("alice"), "bob.csv"))
}
