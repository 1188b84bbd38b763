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

// GoalService manages a member's personal savings goals
type GoalService struct {
	store *repositories.Store
	gate  *Gate
	now   Clock
}

// NewGoalService creates a new goal service
func NewGoalService(store *repositories.Store, gate *Gate, now Clock) *GoalService {
	return &GoalService{
		store: store,
		gate:  gate,
		now:   now,
	}
}

// GoalInput creates a goal
type GoalInput struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      time.Time       `json:"deadline"`
	Description   string          `json:"description"`
}

// GoalUpdate is a partial goal update; nil fields are left unchanged
type GoalUpdate struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time       `json:"deadline"`
	Description   *string          `json:"description"`
}

// GoalView is a goal with its progress
type GoalView struct {
	*models.SavingsGoal
	Progress      decimal.Decimal `json:"progress"`
	DaysRemaining int             `json:"days_remaining"`
}

// MergeGoalUpdate applies the non-nil fields of in to goal and validates the result
func MergeGoalUpdate(goal *models.SavingsGoal, in *GoalUpdate) error {
	if in.Name != nil {
		goal.Name = strings.TrimSpace(*in.Name)
	}
	if in.TargetAmount != nil {
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		goal.CurrentAmount = *in.CurrentAmount
	}
	if in.Deadline != nil {
		goal.Deadline = *in.Deadline
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	return validateGoal(goal)
}

func validateGoal(goal *models.SavingsGoal) error {
	switch {
	case goal.Name == "":
		return domain.Invalidf("name is required")
	case !goal.TargetAmount.IsPositive():
		return domain.Invalid(domain.ErrInvalidAmount)
	case goal.CurrentAmount.IsNegative():
		return domain.Invalidf("current amount must not be negative")
	case goal.Deadline.IsZero():
		return domain.Invalidf("deadline is required")
	}
	return nil
}

func (s *GoalService) view(goal *models.SavingsGoal) *GoalView {
	return &GoalView{
		SavingsGoal:   goal,
		Progress:      finance.GoalProgress(goal.CurrentAmount, goal.TargetAmount),
		DaysRemaining: finance.DaysRemaining(goal.Deadline, s.now()),
	}
}

// List lists the user's goals by deadline
func (s *GoalService) List(ctx context.Context, userID string) ([]*GoalView, error) {
	goals, err := s.store.Goals.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*GoalView, len(goals))
	for i, g := range goals {
		views[i] = s.view(g)
	}
	return views, nil
}

// Create records a new goal for the acting user
func (s *GoalService) Create(ctx context.Context, userID string, input *GoalInput) (*GoalView, error) {
	if _, err := s.gate.Require(ctx, userID, domain.CapSelfWrite); err != nil {
		return nil, err
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
		Description:   strings.TrimSpace(input.Description),
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.store.Goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return s.view(goal), nil
}

// Update edits one of the acting user's goals
func (s *GoalService) Update(ctx context.Context, userID, goalID string, input *GoalUpdate) (*GoalView, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := MergeGoalUpdate(goal, input); err != nil {
		return nil, err
	}
	if err := s.store.Goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return s.view(goal), nil
}

// Contribute adds amount to a goal's current amount
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, input *PaymentInput) (*GoalView, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount)
	}
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(input.Amount)
	if err := s.store.Goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return s.view(goal), nil
}

// Delete removes one of the acting user's goals
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	if _, err := s.owned(ctx, userID, goalID); err != nil {
		return err
	}
	return s.store.Goals.Delete(ctx, goalID)
}

// owned loads a goal after the gate; other users' goals look missing
func (s *GoalService) owned(ctx context.Context, userID, goalID string) (*models.SavingsGoal, error) {
	if _, err := s.gate.Require(ctx, userID, domain.CapSelfWrite); err != nil {
		return nil, err
	}
	goal, err := s.store.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, notFound(err)
	}
	if goal.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return goal, nil
}
