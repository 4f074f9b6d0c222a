// Package loader reads the inputs of an amortize run from disk: monthly
// statements, the bank's CSV export and the loan definition files.
//
// Every loader converts amounts to the module's convention, where a positive
// amount increases the principal owed and a negative one reduces it. The bank
// export and loan files are written from the account holder's side (money
// lent out is a withdrawal), so both are negated on the way in.
//
// Example usage:
//
//	ldr := loader.New(loader.WithAccount("0012345"))
//	statements, err := ldr.Statements(ctx, "statements/")
//	for _, st := range statements {
//	    text, err := ldr.StatementText(ctx, st)
//	    ...
//	}
//	bank, err := ldr.Bank(ctx, "export.csv")
package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/robinvdvleuten/amortize/ledger"
)

// Loader reads run inputs. Configure it with functional options passed to New.
type Loader struct {
	// Account restricts the bank export to one account number. Empty keeps
	// every row.
	Account string

	// Text extracts the text of a statement file.
	Text TextSource
}

// Option configures a Loader.
type Option func(*Loader)

// WithAccount keeps only bank rows of the given account number.
func WithAccount(account string) Option {
	return func(l *Loader) {
		l.Account = account
	}
}

// WithTextSource replaces the default PDF/plain-text statement reader.
func WithTextSource(src TextSource) Option {
	return func(l *Loader) {
		l.Text = src
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{Text: FileText{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bank reads the bank CSV export at path.
func (l *Loader) Bank(ctx context.Context, path string) (*ledger.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadBankCSV(ctx, path, f, l.Account)
}

// ParseError is returned when a field of an input file does not have the
// expected shape.
type ParseError struct {
	Source string // file name
	Line   int    // 1-based line in Source, 0 when unknown
	Row    int    // 1-based entry of a loan's rows array, 0 when unknown
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	location := e.Source
	switch {
	case e.Line > 0:
		location = fmt.Sprintf("%s:%d", e.Source, e.Line)
	case e.Row > 0:
		location = fmt.Sprintf("%s: row %d", e.Source, e.Row)
	}
	msg := fmt.Sprintf("%s: invalid %s %q", location, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// GetLine returns the line of the offending input.
func (e *ParseError) GetLine() int { return e.Line }

// GetSource returns the name of the offending file.
func (e *ParseError) GetSource() string { return e.Source }
