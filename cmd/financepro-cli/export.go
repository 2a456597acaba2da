package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"financepro/internal/report"
)

type exportCmd struct {
	period       string
	out          string
	budgets      bool
	debts        bool
	transactions bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the CSV report of the stored ledger" }
func (*exportCmd) Usage() string {
	return `export [-period all|current_month|last_month] [-out file.csv] [-budgets=false] [-debts=false] [-transactions=false]

  Renders the report from the latest snapshot. Writes to stdout unless -out
  is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", string(report.PeriodAll), "transactions to include: all, current_month or last_month")
	f.StringVar(&c.out, "out", "", "output file (default stdout)")
	f.BoolVar(&c.budgets, "budgets", true, "include the 50/30/20 budget table")
	f.BoolVar(&c.debts, "debts", true, "include the debts table")
	f.BoolVar(&c.transactions, "transactions", true, "include transaction rows")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	period, err := report.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	env := envFrom(args)
	svc, err := env.service(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.out != "" {
		f, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f
	}

	st, rev := svc.Snapshot()
	opts := report.Options{Period: period, Budgets: c.budgets, Debts: c.debts, Transactions: c.transactions}
	if err := report.Write(w, st, opts, env.cfg.Currency, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.out != "" {
		fmt.Fprintf(os.Stderr, "Report for revision %d written to %s\n", rev, c.out)
	}
	return subcommands.ExitSuccess
}
