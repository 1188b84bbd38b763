package services

import (
	"context"
	"strings"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"

	"github.com/shopspring/decimal"
)

// DebtService manages a member's own debts with third parties
type DebtService struct {
	store *repositories.Store
	gate  *Gate
	now   Clock
}

// NewDebtService creates a new debt service
func NewDebtService(store *repositories.Store, gate *Gate, now Clock) *DebtService {
	return &DebtService{
		store: store,
		gate:  gate,
		now:   now,
	}
}

// DebtInput creates a debt
type DebtInput struct {
	Creditor       string          `json:"creditor"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	StartDate      *time.Time      `json:"start_date"`
}

// DebtUpdate is a partial debt update; nil fields are left unchanged
type DebtUpdate struct {
	Creditor       *string          `json:"creditor"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	CurrentBalance *decimal.Decimal `json:"current_balance"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
	StartDate      *time.Time       `json:"start_date"`
}

// DebtView is a debt with its derived figures
type DebtView struct {
	*models.Debt
	Progress decimal.Decimal    `json:"progress"`
	Status   finance.DebtStatus `json:"status"`

	// PayoffMonths is nil when the payment never covers the interest
	PayoffMonths *int `json:"payoff_months"`
}

// MergeDebtUpdate applies the non-nil fields of in to debt and validates the result
func MergeDebtUpdate(debt *models.Debt, in *DebtUpdate) error {
	if in.Creditor != nil {
		debt.Creditor = strings.TrimSpace(*in.Creditor)
	}
	if in.TotalAmount != nil {
		debt.TotalAmount = *in.TotalAmount
	}
	if in.CurrentBalance != nil {
		debt.CurrentBalance = *in.CurrentBalance
	}
	if in.InterestRate != nil {
		debt.InterestRate = *in.InterestRate
	}
	if in.MonthlyPayment != nil {
		debt.MonthlyPayment = *in.MonthlyPayment
	}
	if in.StartDate != nil {
		debt.StartDate = *in.StartDate
	}
	return validateDebt(debt)
}

func validateDebt(debt *models.Debt) error {
	switch {
	case debt.Creditor == "":
		return domain.Invalidf("creditor is required")
	case !debt.TotalAmount.IsPositive():
		return domain.Invalid(domain.ErrInvalidAmount)
	case debt.CurrentBalance.IsNegative():
		return domain.Invalidf("current balance must not be negative")
	case debt.InterestRate.IsNegative():
		return domain.Invalid(domain.ErrInvalidRate)
	case debt.MonthlyPayment.IsNegative():
		return domain.Invalidf("monthly payment must not be negative")
	}
	return nil
}

// ViewDebt derives progress, status and payoff time
func ViewDebt(debt *models.Debt) *DebtView {
	view := &DebtView{
		Debt:     debt,
		Progress: finance.DebtProgress(debt.TotalAmount, debt.CurrentBalance),
		Status:   finance.StatusOf(debt.TotalAmount, debt.CurrentBalance),
	}
	if months, ok := finance.PayoffMonths(debt.CurrentBalance, debt.InterestRate, debt.MonthlyPayment); ok {
		view.PayoffMonths = &months
	}
	return view
}

// List lists the user's debts
func (s *DebtService) List(ctx context.Context, userID string) ([]*DebtView, error) {
	debts, err := s.store.Debts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*DebtView, len(debts))
	for i, d := range debts {
		views[i] = ViewDebt(d)
	}
	return views, nil
}

// Create records a new debt for the acting user
func (s *DebtService) Create(ctx context.Context, userID string, input *DebtInput) (*DebtView, error) {
	if _, err := s.gate.Require(ctx, userID, domain.CapSelfWrite); err != nil {
		return nil, err
	}

	start := today(s.now())
	if input.StartDate != nil {
		start = *input.StartDate
	}
	debt := &models.Debt{
		UserID:         userID,
		Creditor:       strings.TrimSpace(input.Creditor),
		TotalAmount:    input.TotalAmount,
		CurrentBalance: input.CurrentBalance,
		InterestRate:   input.InterestRate,
		MonthlyPayment: input.MonthlyPayment,
		StartDate:      start,
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}

	if err := s.store.Debts.Create(ctx, debt); err != nil {
		return nil, err
	}
	return ViewDebt(debt), nil
}

// Update edits one of the acting user's debts
func (s *DebtService) Update(ctx context.Context, userID, debtID string, input *DebtUpdate) (*DebtView, error) {
	debt, err := s.owned(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	if err := MergeDebtUpdate(debt, input); err != nil {
		return nil, err
	}
	if err := s.store.Debts.Update(ctx, debt); err != nil {
		return nil, err
	}
	return ViewDebt(debt), nil
}

// Pay lowers the balance by amount, never below zero
func (s *DebtService) Pay(ctx context.Context, userID, debtID string, input *PaymentInput) (*DebtView, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount)
	}
	debt, err := s.owned(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	debt.CurrentBalance, _ = finance.ApplyPayment(debt.CurrentBalance, input.Amount)
	if err := s.store.Debts.Update(ctx, debt); err != nil {
		return nil, err
	}
	return ViewDebt(debt), nil
}

// Delete removes one of the acting user's debts
func (s *DebtService) Delete(ctx context.Context, userID, debtID string) error {
	if _, err := s.owned(ctx, userID, debtID); err != nil {
		return err
	}
	return s.store.Debts.Delete(ctx, debtID)
}

// owned loads a debt after the gate; other users' debts look missing
func (s *DebtService) owned(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	if _, err := s.gate.Require(ctx, userID, domain.CapSelfWrite); err != nil {
		return nil, err
	}
	debt, err := s.store.Debts.GetByID(ctx, debtID)
	if err != nil {
		return nil, notFound(err)
	}
	if debt.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return debt, nil
}
