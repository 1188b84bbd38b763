package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"savingsfund/internal/core/services"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	months   int
	currency string
	admin    string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the fund summary" }
func (*summaryCmd) Usage() string {
	return `fundctl summary [-months n] [-currency code] [-admin email]

  Displays members, total savings, this month's deposits, the top saver,
  deposits per month and the loan book.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 6, "Trailing months of deposits to show")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 currency for display (defaults to FUND_CURRENCY)")
	f.StringVar(&c.admin, "admin", "", "Email of the reading admin (defaults to ADMIN_EMAIL)")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	actorID, err := a.actorID(ctx, c.admin)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	gate := services.NewGate(a.store)
	reports := services.NewReportService(a.store, gate, time.Now)
	loans := services.NewLoanService(a.store, gate, time.Now)

	summary, err := reports.FundSummary(ctx, actorID)
	if err != nil {
		fail("summary: %v", err)
		return subcommands.ExitFailure
	}
	trend, err := reports.MonthlyTrend(ctx, actorID, c.months, "")
	if err != nil {
		fail("trend: %v", err)
		return subcommands.ExitUsageError
	}
	stats, err := loans.Statistics(ctx)
	if err != nil {
		fail("loans: %v", err)
		return subcommands.ExitFailure
	}

	currency := c.currency
	if currency == "" {
		currency = a.cfg.Fund.Currency
	}
	printMarkdown(summaryMarkdown(summary, trend, stats, currency))
	return subcommands.ExitSuccess
}

type snapshotCmd struct{}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "store last month's fund summary" }
func (*snapshotCmd) Usage() string {
	return `fundctl snapshot

  Stores the summary of the previous calendar month, as the monthly cron job
  does. Running it again for the same month changes nothing.
`
}

func (*snapshotCmd) SetFlags(*flag.FlagSet) {}

func (*snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	snapshot, created, err := services.NewReportService(a.store, services.NewGate(a.store), time.Now).Snapshot(ctx)
	if err != nil {
		fail("snapshot: %v", err)
		return subcommands.ExitFailure
	}

	state := "already stored"
	if created {
		state = "stored"
	}
	fmt.Printf("Snapshot %s %s: %d members, total savings %s\n",
		snapshot.Period, state, snapshot.TotalMembers, snapshot.TotalSavings.StringFixed(2))
	return subcommands.ExitSuccess
}
