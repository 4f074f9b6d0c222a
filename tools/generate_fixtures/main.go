// Fixture Generator
//
// This tool writes a synthetic amortize input set for performance testing and
// profiling: one statement per month with a drifting variable rate, loan
// definitions with a draw and monthly repayments, and a bank export holding
// every loan transaction.
//
// Usage:
//
//	go run ./tools/generate_fixtures fixtures
//	go run ./tools/generate_fixtures fixtures --months 240 --loans 50
//	amortize --telemetry run --statements fixtures/statements --bank fixtures/bank.csv --loan fixtures/loan-*.json
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/amortize/date"
)

const account = "0012345"

var args struct {
	Dir    string `arg:"" help:"Folder to write the fixtures to." type:"path"`
	Months int    `help:"Number of monthly statements." default:"60"`
	Loans  int    `help:"Number of loans." default:"10"`
	Seed   int64  `help:"Random seed." default:"1"`
}

func main() {
	ctx := kong.Parse(&args, kong.Description("Generate amortize fixtures."))
	ctx.FatalIfErrorf(generate(args.Dir, args.Months, args.Loans, args.Seed))
}

type bankRow struct {
	on     date.Date
	label  string
	amount int64 // cents, positive when money leaves the account
}

type loanRow struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type loanFile struct {
	Label string    `json:"label"`
	Rows  []loanRow `json:"rows"`
}

// generate writes dir/statements/*.txt, dir/bank.csv and dir/loan-<n>.json.
// The first statement is dated 2020-01-15 and covers the month before it.
func generate(dir string, months, loans int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	first := date.New(2020, time.January, 15)

	if err := writeStatements(filepath.Join(dir, "statements"), first, months, rng); err != nil {
		return err
	}

	var bank []bankRow
	for i := 1; i <= loans; i++ {
		rows, err := writeLoan(dir, i, first, months, rng)
		if err != nil {
			return err
		}
		bank = append(bank, rows...)
	}
	return writeBank(filepath.Join(dir, "bank.csv"), bank)
}

func writeStatements(dir string, first date.Date, months int, rng *rand.Rand) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	bps := 500 // rate in basis points
	for i := 0; i < months; i++ {
		period := date.New(first.Year(), first.Month()+time.Month(i), first.Day())
		from := date.New(period.Year(), period.Month()-1, period.Day())
		to := period.Add(-1)

		var b strings.Builder
		b.WriteString("INTEREST SUMMARY\n")

		// Every few months the rate moves on the first of the month, which
		// splits the statement's period in two.
		if i > 0 && rng.Intn(3) == 0 {
			split := date.New(period.Year(), period.Month(), 1)
			fmt.Fprintf(&b, "%s TO %s : %s\n", summaryDay(from), summaryDay(split.Add(-1)), percent(bps))
			bps = max(100, bps+25*(rng.Intn(5)-2))
			fmt.Fprintf(&b, "%s TO %s : %s\n", summaryDay(split), summaryDay(to), percent(bps))
		} else {
			fmt.Fprintf(&b, "%s TO %s : %s\n", summaryDay(from), summaryDay(to), percent(bps))
		}

		name := fmt.Sprintf("statement-%d-%s.txt", i+1, period.Time().Format("06Jan02"))
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func summaryDay(d date.Date) string {
	return fmt.Sprintf("%d %s", d.Day(), strings.ToUpper(d.Month().String()[:3]))
}

func percent(bps int) string {
	return fmt.Sprintf("%d.%02d0%%", bps/100, bps%100)
}

// writeLoan writes one loan definition in the cash convention and returns
// the matching bank rows.
func writeLoan(dir string, n int, first date.Date, months int, rng *rand.Rand) ([]bankRow, error) {
	label := fmt.Sprintf("loan-%d", n)
	drawn := date.New(first.Year(), first.Month(), 1+rng.Intn(28))
	principal := int64(100000 + rng.Intn(1000000)) // cents
	payment := principal / int64(12+rng.Intn(48))

	f := loanFile{Label: label}
	bank := []bankRow{{on: drawn, label: label, amount: principal}}
	f.Rows = append(f.Rows, loanRow{Date: drawn.String(), Type: "loan", Description: "advance", Amount: -cents(principal)})

	for i := 1; i < months; i++ {
		on := date.New(drawn.Year(), drawn.Month()+time.Month(i), 1)
		bank = append(bank, bankRow{on: on, label: label, amount: -payment})
		f.Rows = append(f.Rows, loanRow{Date: on.String(), Type: "payment", Description: "repayment", Amount: cents(payment)})
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return bank, os.WriteFile(filepath.Join(dir, label+".json"), data, 0o600)
}

func writeBank(path string, rows []bankRow) error {
	var b strings.Builder
	var balance int64 = 100000000
	for _, r := range rows {
		balance -= r.amount
		withdrawal, deposit := "", ""
		if r.amount > 0 {
			withdrawal = fmt.Sprintf("%.2f", cents(r.amount))
		} else {
			deposit = fmt.Sprintf("%.2f", cents(-r.amount))
		}
		fmt.Fprintf(&b, "%s,%s,TRANSFER  %s,,%s,%s,%.2f\n",
			account, r.on.Time().Format("2-Jan-2006"), r.label, withdrawal, deposit, cents(balance))
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func cents(v int64) float64 {
	return float64(v) / 100
}
