// Package pipeline runs the amortize batch: extract rates from every
// statement, build the timeline, cross-check the loans against the bank and
// accrue interest on each loan.
//
// A run is fail-fast: the first error aborts it and no partial result is
// returned. Running twice on the same inputs and the same Config produces the
// same result.
package pipeline

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/amortize/config"
	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/interest"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/loader"
	"github.com/robinvdvleuten/amortize/logger"
	"github.com/robinvdvleuten/amortize/rates"
	"github.com/robinvdvleuten/amortize/telemetry"
)

// Result is everything a run computed.
type Result struct {
	Statements []loader.Statement
	Timeline   rates.Timeline
	Bank       *ledger.Ledger   // nil when no bank file is configured
	Loans      []*ledger.Ledger // as loaded
	Accrued    []*ledger.Ledger // same order as Loans
	Through    date.Date
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	cfg    *config.Config
	loader *loader.Loader
	today  func() date.Date
}

// New creates a pipeline for cfg. The loader is built from cfg unless given.
func New(cfg *config.Config, ldr *loader.Loader) *Pipeline {
	if ldr == nil {
		ldr = loader.New(loader.WithAccount(cfg.Account))
	}
	return &Pipeline{cfg: cfg, loader: ldr, today: date.Today}
}

// Run executes every stage.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}

	var err error
	res.Statements, res.Timeline, err = p.Rates(ctx)
	if err != nil {
		return nil, err
	}

	res.Bank, res.Loans, err = p.Ledgers(ctx)
	if err != nil {
		return nil, err
	}

	if res.Bank != nil {
		if err := p.Validate(ctx, res.Bank, res.Loans); err != nil {
			return nil, err
		}
	}

	res.Through = p.through(res.Timeline, res.Loans)
	res.Accrued, err = p.Accrue(ctx, res.Loans, res.Timeline, res.Through)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Rates extracts the rate intervals of every statement in the configured
// folder and builds the timeline. Each statement's text is released before
// the next one is read.
func (p *Pipeline) Rates(ctx context.Context) ([]loader.Statement, rates.Timeline, error) {
	log := logger.FromContext(ctx)

	statements, err := p.loader.Statements(ctx, p.cfg.StatementDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list statements: %w", err)
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("rates.extract (%d statements)", len(statements)))
	var raw []rates.Interval
	for _, st := range statements {
		intervals, err := p.Extract(ctx, st)
		if err != nil {
			timer.End()
			return nil, nil, err
		}
		log.Debug().Str("statement", st.Path).Int("intervals", len(intervals)).Msg("extracted rates")
		raw = append(raw, intervals...)
	}
	timer.End()

	buildTimer := telemetry.StartTimer(ctx, "rates.timeline")
	timeline, err := rates.BuildTimeline(raw)
	buildTimer.End()
	if err != nil {
		return nil, nil, err
	}

	log.Info().Int("statements", len(statements)).Int("intervals", len(timeline)).Msg("built rate timeline")
	return statements, timeline, nil
}

// Extract returns the raw intervals of a single statement.
func (p *Pipeline) Extract(ctx context.Context, st loader.Statement) ([]rates.Interval, error) {
	text, err := p.loader.StatementText(ctx, st)
	if err != nil {
		return nil, err
	}
	intervals, err := rates.Extract(text, st.Period.Year(), st.Period.Month())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", st.Path, err)
	}
	return intervals, nil
}

// Ledgers loads the bank export, if configured, and every loan definition.
func (p *Pipeline) Ledgers(ctx context.Context) (*ledger.Ledger, []*ledger.Ledger, error) {
	var bank *ledger.Ledger
	if p.cfg.BankFile != "" {
		var err error
		bank, err = p.loader.Bank(ctx, p.cfg.BankFile)
		if err != nil {
			return nil, nil, err
		}
	}

	loans := make([]*ledger.Ledger, 0, len(p.cfg.LoanFiles))
	for _, path := range p.cfg.LoanFiles {
		loan, err := p.loader.Loan(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		loans = append(loans, loan)
	}
	return bank, loans, nil
}

// Validate cross-checks the loans against the bank.
func (p *Pipeline) Validate(ctx context.Context, bank *ledger.Ledger, loans []*ledger.Ledger) error {
	timer := telemetry.StartTimer(ctx, "ledger.validate")
	defer timer.End()

	err := ledger.Validate(bank, loans,
		ledger.WithTolerance(p.cfg.Tolerance),
		ledger.WithCurrency(p.cfg.Currency),
	)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info().Int("loans", len(loans)).Str("bank", bank.Label).Msg("loan transactions match the bank")
	return nil
}

// Accrue runs the interest engine on every loan through the given day.
func (p *Pipeline) Accrue(ctx context.Context, loans []*ledger.Ledger, timeline rates.Timeline, through date.Date) ([]*ledger.Ledger, error) {
	log := logger.FromContext(ctx)
	accrued := make([]*ledger.Ledger, 0, len(loans))
	for _, loan := range loans {
		l, err := interest.Accrue(ctx, loan, timeline, p.cfg.PostingDay, interest.WithThrough(through))
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("loan", l.Label).
			Int("rows", len(l.Rows)).
			Float64("balance", l.CurrentBalance).
			Msg("accrued interest")
		accrued = append(accrued, l)
	}
	return accrued, nil
}

// through is the configured last day, or today capped at the last day the
// statements give a rate for. The default never stops before the latest loan
// transaction; when rates do not reach that far the engine reports the first
// uncovered day instead of dropping the transaction.
func (p *Pipeline) through(timeline rates.Timeline, loans []*ledger.Ledger) date.Date {
	through := p.today()
	if end := timeline.End(); !end.IsZero() && end.Before(through) {
		through = end
	}
	for _, l := range loans {
		if last, ok := l.LastDate(); ok && last.After(through) {
			through = last
		}
	}
	return p.cfg.ThroughOr(through)
}
