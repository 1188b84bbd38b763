package main

import (
	"fmt"
	"strings"

	"savingsfund/internal/core/finance"
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/money"
)

// quoteMarkdown renders a loan quote, with its schedule when one is given
func quoteMarkdown(q finance.LoanQuote, schedule []finance.Installment, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Loan quote\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Amount | %s |\n", money.Format(q.Amount, currency))
	fmt.Fprintf(&b, "| Interest rate | %s%% per month |\n", q.InterestRate.String())
	fmt.Fprintf(&b, "| Term | %d months |\n", q.TermMonths)
	fmt.Fprintf(&b, "| Principal per month | %s |\n", money.Format(q.PrincipalPayment, currency))
	fmt.Fprintf(&b, "| Interest per month | %s |\n", money.Format(q.InterestPerPayment, currency))
	fmt.Fprintf(&b, "| **Monthly payment** | **%s** |\n", money.Format(q.MonthlyPayment, currency))
	fmt.Fprintf(&b, "| Total payment | %s |\n", money.Format(q.TotalPayment, currency))
	fmt.Fprintf(&b, "| Total interest | %s |\n", money.Format(q.TotalInterest, currency))

	if len(schedule) > 0 {
		fmt.Fprintf(&b, "\n## Schedule\n\n")
		fmt.Fprintf(&b, "| # | Due | Principal | Interest | Payment | Balance |\n")
		fmt.Fprintf(&b, "|---:|---|---:|---:|---:|---:|\n")
		for _, row := range schedule {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				row.Number,
				row.DueDate.Format("2006-01-02"),
				money.Format(row.Principal, currency),
				money.Format(row.Interest, currency),
				money.Format(row.Payment, currency),
				money.Format(row.Balance, currency),
			)
		}
	}
	return b.String()
}

// summaryMarkdown renders the fund summary, the deposit trend and the loan book
func summaryMarkdown(s *services.FundSummaryOutput, trend []finance.MonthBucket, loans finance.LoanStatistics, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fund summary\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Members | %d (%d active) |\n", s.TotalMembers, s.ActiveMembers)
	fmt.Fprintf(&b, "| Total savings | %s |\n", money.Format(s.TotalSavings, currency))
	fmt.Fprintf(&b, "| Deposits this month | %s |\n", money.Format(s.MonthlyAverage, currency))
	if s.TopSaver != nil {
		fmt.Fprintf(&b, "| Top saver | %s (%s) |\n", s.TopSaver.Name, money.Format(s.TopSaver.TotalSavings, currency))
	} else {
		fmt.Fprintf(&b, "| Top saver | none |\n")
	}

	fmt.Fprintf(&b, "\n## Deposits by month\n\n")
	fmt.Fprintf(&b, "| Month | Deposits | Amount |\n|---|---:|---:|\n")
	for _, m := range trend {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", m.Month, m.Count, money.Format(m.Total, currency))
	}

	fmt.Fprintf(&b, "\n## Loans\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Loans | %d (%d active) |\n", loans.TotalLoans, loans.ActiveLoans)
	fmt.Fprintf(&b, "| Lent | %s |\n", money.Format(loans.TotalLent, currency))
	fmt.Fprintf(&b, "| Outstanding | %s |\n", money.Format(loans.TotalOutstanding, currency))
	fmt.Fprintf(&b, "| Repaid | %s |\n", money.Format(loans.TotalPaid, currency))
	fmt.Fprintf(&b, "| Average loan | %s |\n", money.Format(loans.AverageLoanAmount, currency))

	return b.String()
}
