package main

import (
	"context"
	"flag"
	"time"

	"savingsfund/internal/core/finance"
	"savingsfund/internal/pkg/money"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// quoteCmd simulates a flat-rate loan. It needs no database.
type quoteCmd struct {
	amount   string
	rate     string
	term     int
	currency string
	schedule bool
	start    string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "simulate a flat-rate loan" }
func (*quoteCmd) Usage() string {
	return `fundctl quote -amount <amount> -rate <percent> -term <months> [-schedule] [-start <date>]

  Prints the monthly payment, total payment and total interest of a loan.
  The rate is charged on the full amount every month.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Loan amount")
	f.StringVar(&c.rate, "rate", "0", "Flat monthly interest rate in percent")
	f.IntVar(&c.term, "term", 12, "Term in months")
	f.StringVar(&c.currency, "currency", money.DefaultCurrency, "ISO 4217 currency for display")
	f.BoolVar(&c.schedule, "schedule", false, "Also print the installment schedule")
	f.StringVar(&c.start, "start", "", "First month of the schedule, YYYY-MM-DD (defaults to today)")
}

func (c *quoteCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fail("invalid amount %q", c.amount)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fail("invalid rate %q", c.rate)
		return subcommands.ExitUsageError
	}

	start := time.Now()
	if c.start != "" {
		if start, err = time.Parse("2006-01-02", c.start); err != nil {
			fail("invalid start date %q", c.start)
			return subcommands.ExitUsageError
		}
	}

	q, err := finance.Quote(amount, rate, c.term)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	var schedule []finance.Installment
	if c.schedule {
		schedule = finance.Schedule(q, start)
	}
	printMarkdown(quoteMarkdown(q, schedule, c.currency))
	return subcommands.ExitSuccess
}
