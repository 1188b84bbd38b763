package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups every repository over one connection. Services receive a
// Store instead of reaching package globals; Transaction hands the callback
// a Store bound to the open transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Entries       SavingsEntryRepository
	Loans         LoanRepository
	Debts         DebtRepository
	Goals         GoalRepository
	Settings      SettingsRepository
	Snapshots     SnapshotRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Entries:       NewSavingsEntryRepository(db),
		Loans:         NewLoanRepository(db),
		Debts:         NewDebtRepository(db),
		Goals:         NewGoalRepository(db),
		Settings:      NewSettingsRepository(db),
		Snapshots:     NewSnapshotRepository(db),
	}
}

// Transaction runs fn inside a database transaction. Returning an error
// from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
