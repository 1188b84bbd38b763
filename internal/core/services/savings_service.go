package services

import (
	"context"
	"log"
	"strings"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"
	"savingsfund/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// SavingsService manages the fund ledger
type SavingsService struct {
	store *repositories.Store
	gate  *Gate
	now   Clock
}

// NewSavingsService creates a new savings service
func NewSavingsService(store *repositories.Store, gate *Gate, now Clock) *SavingsService {
	return &SavingsService{
		store: store,
		gate:  gate,
		now:   now,
	}
}

// AddEntryInput represents a deposit recorded by an admin
type AddEntryInput struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// AddEntry appends a deposit dated today. The user's total reflects it on
// the next read because totals are always summed from the ledger.
func (s *SavingsService) AddEntry(ctx context.Context, actorID string, input *AddEntryInput) (*models.SavingsEntry, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLedgerWrite); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount)
	}

	entry := &models.SavingsEntry{
		UserID:      input.UserID,
		Amount:      input.Amount.Round(finance.MoneyPlaces),
		Date:        today(s.now()),
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   actorID,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetByID(ctx, input.UserID); err != nil {
			return notFound(err)
		}
		return tx.Entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💰 Savings entry %s: %s for user %s", entry.ID, entry.Amount, entry.UserID)
	return entry, nil
}

// DeleteEntry removes an entry from the ledger
func (s *SavingsService) DeleteEntry(ctx context.Context, actorID, entryID string) error {
	if _, err := s.gate.Require(ctx, actorID, domain.CapLedgerWrite); err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		entry, err := tx.Entries.GetByID(ctx, entryID)
		if err != nil {
			return notFound(err)
		}
		if err := tx.Entries.Delete(ctx, entryID); err != nil {
			return err
		}
		log.Printf("🗑️ Savings entry %s deleted (user %s, %s)", entry.ID, entry.UserID, entry.Amount)
		return nil
	})
}

// TotalByUser sums every ledger entry of a user
func (s *SavingsService) TotalByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.store.Entries.SumByUserID(ctx, userID)
}

// EntriesByUser lists a user's entries newest first
func (s *SavingsService) EntriesByUser(ctx context.Context, userID string) ([]*models.SavingsEntry, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err)
	}
	return s.store.Entries.ListByUserID(ctx, userID)
}

// ListEntries pages the whole ledger, optionally restricted to a period
// (month, quarter, year or all).
func (s *SavingsService) ListEntries(ctx context.Context, params *pagination.Params, period string) ([]*models.SavingsEntry, int64, error) {
	var since *time.Time
	switch period {
	case "", domain.PeriodAll:
	case domain.PeriodMonth, domain.PeriodQuarter, domain.PeriodYear:
		start, _ := finance.PeriodStart(period, s.now())
		start = today(start)
		since = &start
	default:
		return nil, 0, domain.Invalidf("unknown period %q", period)
	}
	return s.store.Entries.List(ctx, params.Offset, params.Limit, since)
}
