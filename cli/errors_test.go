package cli

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/errors"
	"github.com/robinvdvleuten/amortize/interest"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/loader"
	"github.com/robinvdvleuten/amortize/rates"
)

func TestErrorRenderer_RenderWithSourceContext(t *testing.T) {
	source := "0012345,01-Mar-2023,FEE,,1.50,,5.00\n" +
		"0012345,2023-03-02,FEE,,1.50,,3.50\n" +
		"0012345,03-Mar-2023,FEE,,1.50,,2.00\n"

	renderer := NewErrorRenderer(errors.WithSource("bank.csv", []byte(source)))
	output := renderer.Render(&loader.ParseError{Source: "bank.csv", Line: 2, Field: "date", Value: "2023-03-02"})

	assert.Contains(t, output, `bank.csv:2: invalid date "2023-03-02"`)
	assert.Contains(t, output, "0012345,01-Mar-2023,FEE")
	assert.Contains(t, output, "0012345,03-Mar-2023,FEE")

	found := false
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, " > ") && strings.Contains(line, "2023-03-02,FEE") {
			found = true
		}
	}
	assert.True(t, found, "expected the offending line to be marked")
}

func TestErrorRenderer_RenderWithoutContext(t *testing.T) {
	renderer := NewErrorRenderer()
	output := renderer.Render(&rates.NoRatesFoundError{Year: 2023, Month: 3})
	assert.Contains(t, output, "failed to find any interest rates for 2023-03")
	assert.NotContains(t, output, "\n")
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	renderer := NewErrorRenderer()
	output := renderer.RenderAll([]error{fmt.Errorf("first"), fmt.Errorf("second")})
	assert.Contains(t, output, "first")
	assert.Contains(t, output, "second")
	assert.Equal(t, "", renderer.RenderAll(nil))
}

func TestSplitErrors(t *testing.T) {
	first, second := fmt.Errorf("first"), fmt.Errorf("second")
	assert.Equal(t, []error{first, second}, splitErrors(stdErrors.Join(first, second)))
	assert.Equal(t, []error{first}, splitErrors(first))
}

func TestIsMismatch(t *testing.T) {
	assert.True(t, isMismatch(fmt.Errorf("run: %w", &ledger.AmountMismatchError{Loan: "alice"})))
	assert.True(t, isMismatch(&ledger.MissingTransactionError{Loan: "alice"}))
	assert.False(t, isMismatch(&rates.TimelineGapError{}))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Parse", &loader.ParseError{Source: "a.json"}, "invalid input file"},
		{"NoRates", fmt.Errorf("x.pdf: %w", &rates.NoRatesFoundError{Year: 2023, Month: 1}), "could not extract interest rates"},
		{"Gap", &rates.TimelineGapError{}, "interest rate timeline has a gap"},
		{"Missing", &ledger.MissingTransactionError{Loan: "alice", Date: date.MustParse("2023-01-01")}, "loan does not match the bank export"},
		{"OutOfRange", &rates.DateOutOfRangeError{}, "no interest rate known for a simulated day"},
		{"Empty", &interest.EmptyResultError{Loan: "alice"}, "could not accrue interest"},
		{"Unsimulated", &interest.UnsimulatedTransactionError{Loan: "alice"}, "could not accrue interest"},
		{"Other", fmt.Errorf("boom"), "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, summarize(tt.err))
		})
	}
}
