package services

import (
	"context"
	"log"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"
	"savingsfund/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// LoanService manages loans granted by the fund
type LoanService struct {
	store *repositories.Store
	gate  *Gate
	now   Clock
}

// NewLoanService creates a new loan service
func NewLoanService(store *repositories.Store, gate *Gate, now Clock) *LoanService {
	return &LoanService{
		store: store,
		gate:  gate,
		now:   now,
	}
}

// QuoteInput represents a loan simulation request
type QuoteInput struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermMonths   int             `json:"term_months"`
}

// CreateLoanInput represents loan creation input
type CreateLoanInput struct {
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermMonths   int             `json:"term_months"`
}

// PaymentInput represents a loan payment
type PaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// StatusInput represents a manual status change
type StatusInput struct {
	Status string `json:"status"`
}

// LoanDetail is a loan with its repayment plan
type LoanDetail struct {
	*models.Loan
	Quote    finance.LoanQuote     `json:"quote"`
	Schedule []finance.Installment `json:"schedule"`
}

// Quote simulates a loan with the flat-rate formula
func (s *LoanService) Quote(input *QuoteInput) (finance.LoanQuote, error) {
	return finance.Quote(input.Amount, input.InterestRate, input.TermMonths)
}

// CreateLoan grants a loan. The monthly payment is fixed here and never
// recomputed.
func (s *LoanService) CreateLoan(ctx context.Context, actorID string, input *CreateLoanInput) (*models.Loan, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLoanWrite); err != nil {
		return nil, err
	}

	q, err := finance.Quote(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Users.GetByID(ctx, input.UserID); err != nil {
		return nil, notFound(err)
	}

	loan := &models.Loan{
		UserID:           input.UserID,
		Amount:           q.Amount.Round(finance.MoneyPlaces),
		InterestRate:     q.InterestRate,
		TermMonths:       q.TermMonths,
		MonthlyPayment:   q.MonthlyPayment,
		RemainingBalance: q.Amount.Round(finance.MoneyPlaces),
		Status:           string(domain.LoanActive),
		StartDate:        today(s.now()),
		CreatedBy:        actorID,
	}
	if err := s.store.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("🏦 Loan %s created: %s at %s%% over %d months for user %s",
		loan.ID, loan.Amount, loan.InterestRate, loan.TermMonths, loan.UserID)
	return loan, nil
}

// MakePayment reduces the remaining balance, never below zero. A payment
// that clears the balance marks the loan paid.
func (s *LoanService) MakePayment(ctx context.Context, actorID, loanID string, input *PaymentInput) (*models.Loan, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLoanWrite); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount)
	}

	loan, err := s.store.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	if loan.Status != string(domain.LoanActive) {
		return nil, domain.Invalidf("loan is %s, payments need an active loan", loan.Status)
	}

	remaining, settled := finance.ApplyPayment(loan.RemainingBalance, input.Amount)
	loan.RemainingBalance = remaining
	if settled {
		loan.Status = string(domain.LoanPaid)
	}

	if err := s.store.Loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("💵 Payment of %s on loan %s, remaining %s", input.Amount, loan.ID, loan.RemainingBalance)
	return loan, nil
}

// UpdateStatus sets a loan status by hand. This is the only way a loan
// becomes defaulted.
func (s *LoanService) UpdateStatus(ctx context.Context, actorID, loanID string, input *StatusInput) (*models.Loan, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLoanWrite); err != nil {
		return nil, err
	}

	status := domain.LoanStatus(input.Status)
	if !status.IsValid() {
		return nil, domain.Invalid(domain.ErrInvalidLoanStatus)
	}

	loan, err := s.store.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}

	loan.Status = string(status)
	if status == domain.LoanPaid {
		loan.RemainingBalance = decimal.Zero
	}
	if err := s.store.Loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// DeleteLoan hard deletes a loan
func (s *LoanService) DeleteLoan(ctx context.Context, actorID, loanID string) error {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLoanWrite); err != nil {
		return err
	}

	if _, err := s.store.Loans.GetByID(ctx, loanID); err != nil {
		return notFound(err)
	}
	return s.store.Loans.Delete(ctx, loanID)
}

// GetLoan returns a loan with its installment plan
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*LoanDetail, error) {
	loan, err := s.store.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}

	q, err := finance.Quote(loan.Amount, loan.InterestRate, loan.TermMonths)
	if err != nil {
		return nil, err
	}

	return &LoanDetail{
		Loan:     loan,
		Quote:    q,
		Schedule: finance.Schedule(q, loan.StartDate),
	}, nil
}

// ListLoans pages loans, optionally filtered by status
func (s *LoanService) ListLoans(ctx context.Context, params *pagination.Params, status string) ([]*models.Loan, int64, error) {
	if status != "" && !domain.LoanStatus(status).IsValid() {
		return nil, 0, domain.Invalid(domain.ErrInvalidLoanStatus)
	}
	return s.store.Loans.List(ctx, params.Offset, params.Limit, status)
}

// LoansByUser lists a borrower's loans
func (s *LoanService) LoansByUser(ctx context.Context, userID string) ([]*models.Loan, error) {
	return s.store.Loans.ListByUserID(ctx, userID)
}

// Statistics aggregates the whole loan book
func (s *LoanService) Statistics(ctx context.Context) (finance.LoanStatistics, error) {
	loans, err := s.store.Loans.ListAll(ctx)
	if err != nil {
		return finance.LoanStatistics{}, err
	}
	return finance.Statistics(loanFigures(loans)), nil
}

// Analyze sizes a loan against a member's savings
func (s *LoanService) Analyze(ctx context.Context, userID string, loanPercentage, interestRate decimal.Decimal, termMonths int) (finance.LoanAnalysis, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return finance.LoanAnalysis{}, notFound(err)
	}

	savings, err := s.store.Entries.SumByUserID(ctx, userID)
	if err != nil {
		return finance.LoanAnalysis{}, err
	}
	return finance.Analyze(savings, loanPercentage, interestRate, termMonths)
}

func loanFigures(loans []*models.Loan) []finance.LoanFigures {
	figures := make([]finance.LoanFigures, len(loans))
	for i, l := range loans {
		figures[i] = finance.LoanFigures{
			Amount:           l.Amount,
			RemainingBalance: l.RemainingBalance,
			Active:           l.Status == string(domain.LoanActive),
		}
	}
	return figures
}
