package cli

import (
	"github.com/robinvdvleuten/amortize/config"
	"github.com/robinvdvleuten/amortize/date"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error"`
	LogJSON   bool   `help:"Write logs as JSON instead of console text." name:"log-json"`
	JSON      bool   `help:"Print errors as a JSON array instead of text." name:"json"`
}

// Inputs are the flags shared by the commands that read statements, the
// bank export or loan files. Every flag can also be set in amortize.json.
type Inputs struct {
	Statements string    `help:"Folder holding the monthly statements." default:"statements" type:"path"`
	Bank       string    `help:"Bank CSV export to validate loans against." type:"path"`
	Account    string    `help:"Only use bank rows of this account number."`
	Loans      []string  `help:"Loan definition JSON files." name:"loan" type:"path"`
	Output     string    `help:"Folder the CSV exports are written to." default:"data" type:"path"`
	PostingDay int       `help:"Day of month interest is charged." default:"15"`
	Through    date.Date `help:"Last day to simulate (YYYY-MM-DD), defaults to today."`
	Currency   string    `help:"ISO currency code used to display amounts." default:"CAD"`
	Tolerance  float64   `help:"Accept bank amounts within this distance of the loan amount."`
}

// Config converts the flags to a run configuration.
func (in *Inputs) Config() *config.Config {
	cfg := config.New()
	cfg.StatementDir = in.Statements
	cfg.BankFile = in.Bank
	cfg.Account = in.Account
	cfg.LoanFiles = in.Loans
	cfg.OutputDir = in.Output
	cfg.PostingDay = in.PostingDay
	cfg.Through = in.Through
	cfg.Currency = in.Currency
	cfg.Tolerance = in.Tolerance
	return cfg
}

type Commands struct {
	Globals

	Run      RunCmd      `cmd:"" default:"withargs" help:"Extract rates, validate loans and accrue interest, then export the results."`
	Rates    RatesCmd    `cmd:"" help:"Extract the interest rate timeline from the statements."`
	Validate ValidateCmd `cmd:"" help:"Check that every loan transaction appears in the bank export."`
	Watch    WatchCmd    `cmd:"" help:"Re-run whenever a statement or input file changes."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging statements."`
}
