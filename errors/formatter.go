// Package errors formats amortize errors for the people and programs that
// read them. Error types stay in their domain packages (loader, rates,
// ledger, interest); this package only renders them.
//
// Two formatters are provided:
//   - TextFormatter: the offending input lines that explain an error
//   - JSONFormatter: a structured object per error, for scripting
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
)

// Interfaces the domain errors implement. Matching on behaviour keeps this
// package free of imports on loader, rates and interest. Wrapped errors are
// unwrapped to find them.
type (
	lineError interface {
		GetSource() string
		GetLine() int
	}
	datedError interface {
		GetDate() date.Date
	}
	loanError interface {
		GetLoan() string
	}
)

// TextFormatter finds the input lines that explain an error. Styling is
// left to the caller.
type TextFormatter struct {
	sources map[string][]byte
	ledgers map[string]*ledger.Ledger
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource registers the content of an input file so that errors pointing
// at one of its lines are shown with the surrounding lines.
func WithSource(name string, content []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sources[name] = content
	}
}

// WithLedgers registers loan ledgers so that validation errors are shown
// with the loan's rows on the offending day.
func WithLedgers(ledgers ...*ledger.Ledger) TextFormatterOption {
	return func(tf *TextFormatter) {
		for _, l := range ledgers {
			tf.ledgers[l.Label] = l
		}
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{
		sources: make(map[string][]byte),
		ledgers: make(map[string]*ledger.Ledger),
	}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Context returns the indented input lines that explain err, or nil.
func (tf *TextFormatter) Context(err error) []string {
	var le lineError
	if stderrors.As(err, &le) {
		if src, ok := tf.sources[le.GetSource()]; ok && le.GetLine() > 0 {
			return sourceContext(src, le.GetLine())
		}
	}

	var ve interface {
		datedError
		loanError
	}
	if stderrors.As(err, &ve) {
		if l, ok := tf.ledgers[ve.GetLoan()]; ok {
			return ledgerContext(l, ve.GetDate())
		}
	}

	return nil
}

// sourceContext shows up to two lines before and one after the 1-based
// line, marking the offending one.
func sourceContext(src []byte, line int) []string {
	all := strings.Split(strings.TrimRight(string(src), "\n"), "\n")
	if line > len(all) {
		return nil
	}

	start := max(line-3, 0)
	end := min(line, len(all)-1)

	var out []string
	for i := start; i <= end; i++ {
		marker := "   "
		if i == line-1 {
			marker = " > "
		}
		out = append(out, marker+all[i])
	}
	return out
}

func ledgerContext(l *ledger.Ledger, on date.Date) []string {
	var out []string
	for _, r := range l.ByDate()[on] {
		out = append(out, "   "+r.String())
	}
	return out
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

// FormatAll formats multiple errors as an indented JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var le lineError
	if stderrors.As(err, &le) && le.GetLine() > 0 {
		errJSON.Position = &PositionJSON{Filename: le.GetSource(), Line: le.GetLine()}
	}

	details := make(map[string]any)
	var de datedError
	if stderrors.As(err, &de) {
		details["date"] = de.GetDate().String()
	}
	var lo loanError
	if stderrors.As(err, &lo) {
		details["loan"] = lo.GetLoan()
	}
	var mismatch *ledger.AmountMismatchError
	if stderrors.As(err, &mismatch) {
		details["amount"] = mismatch.Amount
		details["bank"] = mismatch.Bank
	}
	if len(details) > 0 {
		errJSON.Details = details
	}

	return errJSON
}
