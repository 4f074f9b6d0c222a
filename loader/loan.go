package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/telemetry"
)

// Sign conventions a loan file may be written in.
const (
	// ConventionCash records amounts as they hit the lender's bank account:
	// money lent out is negative, repayments are positive. This is the
	// default.
	ConventionCash = "cash"

	// ConventionPrincipal records amounts as changes of what is owed.
	ConventionPrincipal = "principal"
)

// loanFile is the JSON shape of a loan definition:
//
//	{
//	  "label": "alice",
//	  "convention": "cash",
//	  "rows": [
//	    {"date": "2023-03-01", "type": "loan", "description": "car", "amount": -5000, "balance": -5000}
//	  ],
//	  "startingBalance": 0
//	}
type loanFile struct {
	Label           string    `json:"label"`
	Convention      string    `json:"convention"`
	Rows            []loanRow `json:"rows"`
	StartingBalance *float64  `json:"startingBalance"`
	CurrentBalance  *float64  `json:"currentBalance"`
}

type loanRow struct {
	Date        *string  `json:"date"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Balance     *float64 `json:"balance"`
}

// Loan reads the loan definition at path.
func (l *Loader) Loan(ctx context.Context, path string) (*ledger.Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseLoan(ctx, path, data)
}

// ParseLoan decodes a loan definition. Rows are sorted by date and their
// amounts converted to the principal convention. A row without a balance
// gets the running sum of amounts, starting from the starting balance.
func ParseLoan(ctx context.Context, name string, data []byte) (*ledger.Ledger, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.loan %s", name))
	defer timer.End()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f loanFile
	if err := dec.Decode(&f); err != nil {
		return nil, &ParseError{Source: name, Field: "loan definition", Err: err}
	}

	sign := 1.0
	switch f.Convention {
	case "", ConventionCash:
		sign = -1
	case ConventionPrincipal:
	default:
		return nil, &ParseError{Source: name, Field: "convention", Value: f.Convention}
	}

	label := f.Label
	if label == "" {
		label = name
	}

	var running float64
	switch {
	case f.StartingBalance != nil:
		running = *f.StartingBalance
	case f.CurrentBalance != nil:
		running = *f.CurrentBalance
	}

	rows := make([]ledger.Row, 0, len(f.Rows))
	for i, r := range f.Rows {
		if r.Date == nil {
			return nil, &ParseError{Source: name, Row: i + 1, Field: "date", Err: fmt.Errorf("missing")}
		}
		on, err := date.Parse(*r.Date)
		if err != nil {
			return nil, &ParseError{Source: name, Row: i + 1, Field: "date", Value: *r.Date, Err: err}
		}

		running += r.Amount
		balance := running
		if r.Balance != nil {
			balance = *r.Balance
		}

		rows = append(rows, ledger.Row{
			Date:        on,
			Kind:        ledger.ParseKind(r.Type),
			Description: r.Description,
			Amount:      sign * r.Amount,
			Balance:     sign * balance,
		})
	}

	slices.SortStableFunc(rows, func(a, b ledger.Row) int {
		return a.Date.Compare(b.Date)
	})

	l := ledger.New(label)
	if len(rows) == 0 {
		l.CurrentBalance = sign * running
	}
	for _, row := range rows {
		if err := l.Append(row); err != nil {
			return nil, err
		}
	}
	return l, nil
}
