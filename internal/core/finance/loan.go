// Package finance holds the fund's calculation engine: the flat-rate loan
// formula, installment schedules, debt payoff estimation and the aggregations
// behind fund reports. Everything here is pure; callers own persistence.
package finance

import (
	"time"

	"savingsfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money values are rounded to.
const MoneyPlaces = 2

// MaxTermMonths bounds a loan term to fifty years.
const MaxTermMonths = 600

var hundred = decimal.NewFromInt(100)

// LoanQuote is the result of the flat-rate formula for a principal, rate and term.
type LoanQuote struct {
	Amount             decimal.Decimal `json:"amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TermMonths         int             `json:"term_months"`
	PrincipalPayment   decimal.Decimal `json:"principal_payment"`
	InterestPerPayment decimal.Decimal `json:"interest_per_payment"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	TotalPayment       decimal.Decimal `json:"total_payment"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
}

// Quote applies the flat-rate formula. The rate is charged once against the
// principal on every installment, not prorated by remaining balance:
//
//	principalPayment   = amount / termMonths
//	interestPerPayment = amount * rate / 100
//	monthlyPayment     = principalPayment + interestPerPayment
//	totalPayment       = monthlyPayment * termMonths
//	totalInterest      = totalPayment - amount
//
// Intermediate values stay exact; results are rounded to cents at the end.
func Quote(amount, interestRate decimal.Decimal, termMonths int) (LoanQuote, error) {
	if !amount.IsPositive() {
		return LoanQuote{}, domain.Invalid(domain.ErrInvalidAmount)
	}
	if termMonths <= 0 || termMonths > MaxTermMonths {
		return LoanQuote{}, domain.Invalid(domain.ErrInvalidTerm)
	}
	if interestRate.IsNegative() {
		return LoanQuote{}, domain.Invalid(domain.ErrInvalidRate)
	}

	term := decimal.NewFromInt(int64(termMonths))
	principal := amount.Div(term)
	interest := amount.Mul(interestRate.Div(hundred))
	monthly := principal.Add(interest)
	total := monthly.Mul(term)

	return LoanQuote{
		Amount:             amount,
		InterestRate:       interestRate,
		TermMonths:         termMonths,
		PrincipalPayment:   principal.Round(MoneyPlaces),
		InterestPerPayment: interest.Round(MoneyPlaces),
		MonthlyPayment:     monthly.Round(MoneyPlaces),
		TotalPayment:       total.Round(MoneyPlaces),
		TotalInterest:      total.Sub(amount).Round(MoneyPlaces),
	}, nil
}

// Installment is one row of a loan's repayment plan.
type Installment struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Payment   decimal.Decimal `json:"payment"`
	Balance   decimal.Decimal `json:"balance"`
}

// Schedule lays out the installments of a quote starting one month after start.
// The last installment absorbs rounding so the balance ends at exactly zero.
func Schedule(q LoanQuote, start time.Time) []Installment {
	rows := make([]Installment, 0, q.TermMonths)
	balance := q.Amount
	for i := 1; i <= q.TermMonths; i++ {
		principal := q.PrincipalPayment
		if i == q.TermMonths || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)
		rows = append(rows, Installment{
			Number:    i,
			DueDate:   start.AddDate(0, i, 0),
			Principal: principal,
			Interest:  q.InterestPerPayment,
			Payment:   principal.Add(q.InterestPerPayment),
			Balance:   balance,
		})
	}
	return rows
}

// ApplyPayment reduces a balance by payment, never below zero. settled is
// true when the balance reaches zero.
func ApplyPayment(balance, payment decimal.Decimal) (remaining decimal.Decimal, settled bool) {
	remaining = balance.Sub(payment)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return remaining, remaining.IsZero()
}

// LoanFigures is the subset of a loan the statistics need.
type LoanFigures struct {
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	Active           bool
}

// LoanStatistics summarises the loan book.
type LoanStatistics struct {
	TotalLoans        int             `json:"total_loans"`
	ActiveLoans       int             `json:"active_loans"`
	TotalLent         decimal.Decimal `json:"total_lent"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	AverageLoanAmount decimal.Decimal `json:"average_loan_amount"`
}

// Statistics aggregates loans. Outstanding only counts active loans, so a
// defaulted loan's balance shows up as paid.
func Statistics(loans []LoanFigures) LoanStatistics {
	stats := LoanStatistics{
		TotalLoans:        len(loans),
		TotalLent:         decimal.Zero,
		TotalOutstanding:  decimal.Zero,
		AverageLoanAmount: decimal.Zero,
	}
	for _, l := range loans {
		stats.TotalLent = stats.TotalLent.Add(l.Amount)
		if l.Active {
			stats.ActiveLoans++
			stats.TotalOutstanding = stats.TotalOutstanding.Add(l.RemainingBalance)
		}
	}
	stats.TotalPaid = stats.TotalLent.Sub(stats.TotalOutstanding)
	if len(loans) > 0 {
		stats.AverageLoanAmount = stats.TotalLent.Div(decimal.NewFromInt(int64(len(loans)))).Round(MoneyPlaces)
	}
	return stats
}
