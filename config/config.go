// Package config holds the settings of one amortize run. A Config is built
// once by the CLI and passed explicitly to the pipeline.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/ledger"
)

// DefaultPostingDay is the day of month interest is charged when none is
// configured.
const DefaultPostingDay = 15

// Config describes where inputs live and how interest is charged.
type Config struct {
	StatementDir string   // folder with statement-<n>-<YYMonDD>.pdf files
	BankFile     string   // bank CSV export
	Account      string   // bank account number to keep, empty keeps all rows
	LoanFiles    []string // loan definition JSON files
	OutputDir    string   // where CSV exports are written

	PostingDay int       // day of month accrued interest is charged, 1..31
	Through    date.Date // last simulated day, zero means today
	Currency   string    // ISO code used to display amounts
	Tolerance  float64   // amount tolerance when validating, 0 means exact
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		OutputDir:  "data",
		PostingDay: DefaultPostingDay,
		Currency:   ledger.DefaultCurrency,
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.PostingDay < 1 || c.PostingDay > 31 {
		errs = append(errs, fmt.Errorf("invalid posting day %d, expected 1 to 31", c.PostingDay))
	}
	if c.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("invalid tolerance %v, must not be negative", c.Tolerance))
	}
	if len(c.Currency) != 3 || strings.ToUpper(c.Currency) != c.Currency {
		errs = append(errs, fmt.Errorf("invalid currency code %q", c.Currency))
	}
	return errors.Join(errs...)
}

// ThroughOr returns the configured last simulated day, or fallback if none
// is set.
func (c *Config) ThroughOr(fallback date.Date) date.Date {
	if c.Through.IsZero() {
		return fallback
	}
	return c.Through
}

type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the Config from ctx, or defaults when none is set.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return New()
}
