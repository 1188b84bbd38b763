package finance

import (
	"savingsfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// PaymentCapacity rates a monthly payment against the borrower's savings.
type PaymentCapacity string

const (
	CapacityExcellent PaymentCapacity = "excellent"
	CapacityModerate  PaymentCapacity = "moderate"
	CapacityLimited   PaymentCapacity = "limited"
)

// LoanAnalysis is a savings-backed loan proposal for one member.
type LoanAnalysis struct {
	Savings               decimal.Decimal `json:"savings"`
	LoanPercentage        decimal.Decimal `json:"loan_percentage"`
	MaxLoanAmount         decimal.Decimal `json:"max_loan_amount"`
	RecommendedPercentage int             `json:"recommended_percentage"`
	PaymentCapacity       PaymentCapacity `json:"payment_capacity"`
	Quote                 LoanQuote       `json:"quote"`
}

// RecommendedPercentage is the share of savings the fund suggests lending.
func RecommendedPercentage(savings decimal.Decimal) int {
	switch {
	case savings.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return 90
	case savings.GreaterThanOrEqual(decimal.NewFromInt(500_000)):
		return 80
	case savings.GreaterThanOrEqual(decimal.NewFromInt(100_000)):
		return 70
	default:
		return 50
	}
}

// Capacity compares the monthly payment with 10% and 20% of savings.
func Capacity(monthlyPayment, savings decimal.Decimal) PaymentCapacity {
	switch {
	case monthlyPayment.LessThanOrEqual(savings.Mul(decimal.NewFromFloat(0.1))):
		return CapacityExcellent
	case monthlyPayment.LessThanOrEqual(savings.Mul(decimal.NewFromFloat(0.2))):
		return CapacityModerate
	default:
		return CapacityLimited
	}
}

// Analyze sizes a loan as loanPercentage of savings and quotes it with the
// same flat-rate formula used at loan creation.
func Analyze(savings, loanPercentage, interestRate decimal.Decimal, termMonths int) (LoanAnalysis, error) {
	if !loanPercentage.IsPositive() || loanPercentage.GreaterThan(hundred) {
		return LoanAnalysis{}, domain.Invalidf("loan percentage must be between 0 and 100")
	}
	if !savings.IsPositive() {
		return LoanAnalysis{}, domain.Invalidf("member has no savings to lend against")
	}

	maxLoan := savings.Mul(loanPercentage).Div(hundred).Round(MoneyPlaces)
	q, err := Quote(maxLoan, interestRate, termMonths)
	if err != nil {
		return LoanAnalysis{}, err
	}

	return LoanAnalysis{
		Savings:               savings,
		LoanPercentage:        loanPercentage,
		MaxLoanAmount:         maxLoan,
		RecommendedPercentage: RecommendedPercentage(savings),
		PaymentCapacity:       Capacity(q.MonthlyPayment, savings),
		Quote:                 q,
	}, nil
}
