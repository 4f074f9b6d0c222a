package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/telemetry"
)

// Column layout of the bank export.
const (
	colAccount = iota
	colDate
	colDescription
	colCheque
	colWithdrawal
	colDeposit
	colBalance
	bankColumns
)

const bankDateLayout = "2-Jan-2006"

var descriptionSeparator = regexp.MustCompile(`\s{2,}`)

// ReadBankCSV parses a bank export. Records with fewer than seven fields are
// skipped. When account is not empty, records of other accounts are skipped
// too. The ledger is labelled with the first account number kept and its
// rows are sorted by date.
//
// A withdrawal becomes a positive amount and a deposit a negative one. The
// running balance is kept as printed by the bank.
func ReadBankCSV(ctx context.Context, name string, r io.Reader, account string) (*ledger.Ledger, error) {
	timer := telemetry.StartTimer(ctx, "loader.bank")
	defer timer.End()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		label string
		rows  []ledger.Row
		line  int
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			line = 0
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &ParseError{Source: name, Line: line, Field: "record", Err: err}
		}
		line, _ = cr.FieldPos(0)
		if len(record) < bankColumns {
			continue
		}

		acct := strings.TrimSpace(record[colAccount])
		if account != "" && acct != account {
			continue
		}
		if label == "" {
			label = acct
		}

		row, err := bankRow(name, line, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if label == "" || len(rows) == 0 {
		return nil, &ParseError{Source: name, Field: "account", Value: account,
			Err: errors.New("no transactions with an account number and balance")}
	}

	slices.SortStableFunc(rows, func(a, b ledger.Row) int {
		return a.Date.Compare(b.Date)
	})

	l := ledger.New(label)
	for _, row := range rows {
		if err := l.Append(row); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func bankRow(name string, line int, record []string) (ledger.Row, error) {
	raw := strings.TrimSpace(record[colDate])
	on, err := date.ParseLayout(bankDateLayout, raw)
	if err != nil {
		return ledger.Row{}, &ParseError{Source: name, Line: line, Field: "date", Value: raw, Err: err}
	}

	var amount float64
	if w := strings.TrimSpace(record[colWithdrawal]); w != "" {
		v, err := parseAmount(w)
		if err != nil {
			return ledger.Row{}, &ParseError{Source: name, Line: line, Field: "withdrawal", Value: w, Err: err}
		}
		amount = v
	} else if d := strings.TrimSpace(record[colDeposit]); d != "" {
		v, err := parseAmount(d)
		if err != nil {
			return ledger.Row{}, &ParseError{Source: name, Line: line, Field: "deposit", Value: d, Err: err}
		}
		amount = -v
	}

	b := strings.TrimSpace(record[colBalance])
	balance, err := parseAmount(b)
	if err != nil {
		return ledger.Row{}, &ParseError{Source: name, Line: line, Field: "balance", Value: b, Err: err}
	}

	return ledger.Row{
		Date:        on,
		Kind:        ledger.Unknown,
		Description: strings.Join(descriptionSeparator.Split(strings.TrimSpace(record[colDescription]), -1), " "),
		Amount:      amount,
		Balance:     balance,
	}, nil
}

// parseAmount parses "1,234.56" as 1234.56.
func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
