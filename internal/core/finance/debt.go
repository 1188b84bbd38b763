package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus buckets repayment progress of a personal debt.
type DebtStatus string

const (
	DebtPaid   DebtStatus = "paid"
	DebtGood   DebtStatus = "good"
	DebtMedium DebtStatus = "medium"
	DebtHigh   DebtStatus = "high"
)

// PayoffMonths estimates how many monthly payments clear balance at an annual
// rate (percent) compounded monthly. ok is false when the payment never
// covers the interest.
func PayoffMonths(balance, annualRate, payment decimal.Decimal) (months int, ok bool) {
	if !balance.IsPositive() {
		return 0, true
	}
	if !payment.IsPositive() {
		return 0, false
	}

	b := balance.InexactFloat64()
	p := payment.InexactFloat64()
	r := annualRate.InexactFloat64() / 100 / 12
	if r <= 0 {
		return int(math.Ceil(b / p)), true
	}
	if p <= b*r {
		return 0, false
	}

	// n = -ln(1 - b*r/p) / ln(1 + r)
	n := -math.Log(1-b*r/p) / math.Log(1+r)
	return int(math.Ceil(n)), true
}

// DebtProgress is the paid share of a debt in percent.
func DebtProgress(total, current decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return hundred
	}
	return total.Sub(current).Div(total).Mul(hundred).Round(MoneyPlaces)
}

// StatusOf classifies a debt from its progress.
func StatusOf(total, current decimal.Decimal) DebtStatus {
	progress := DebtProgress(total, current)
	switch {
	case progress.GreaterThanOrEqual(hundred):
		return DebtPaid
	case progress.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return DebtGood
	case progress.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return DebtMedium
	default:
		return DebtHigh
	}
}

// GoalProgress is current/target in percent, capped at 100.
func GoalProgress(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	p := current.Div(target).Mul(hundred).Round(MoneyPlaces)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// DaysRemaining counts calendar days from now until deadline; negative once passed.
func DaysRemaining(deadline, now time.Time) int {
	d := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n).Hours() / 24)
}
