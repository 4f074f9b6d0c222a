package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/amortize/config"
	"github.com/robinvdvleuten/amortize/pipeline"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, generate(dir, 24, 3, 7))

	statements, err := os.ReadDir(filepath.Join(dir, "statements"))
	assert.NoError(t, err)
	assert.Equal(t, 24, len(statements))

	loans, err := filepath.Glob(filepath.Join(dir, "loan-*.json"))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(loans))

	cfg := config.New()
	cfg.StatementDir = filepath.Join(dir, "statements")
	cfg.BankFile = filepath.Join(dir, "bank.csv")
	cfg.LoanFiles = loans

	p := pipeline.New(cfg, nil)
	_, timeline, err := p.Rates(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "2019-12-15", timeline.Start().String())
	assert.Equal(t, "2021-12-14", timeline.End().String())

	cfg.Through = timeline.End()
	res, err := p.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(res.Accrued))
	for _, l := range res.Accrued {
		assert.True(t, l.TotalInterest > 0, "%s accrued no interest", l.Label)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	assert.NoError(t, generate(a, 12, 2, 42))
	assert.NoError(t, generate(b, 12, 2, 42))

	bankA, err := os.ReadFile(filepath.Join(a, "bank.csv"))
	assert.NoError(t, err)
	bankB, err := os.ReadFile(filepath.Join(b, "bank.csv"))
	assert.NoError(t, err)
	assert.Equal(t, string(bankA), string(bankB))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "5.250%", percent(525))
	assert.Equal(t, "1.000%", percent(100))
	assert.Equal(t, "12.050%", percent(1205))
}
