package repositories

import (
	"context"
	"time"

	"savingsfund/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID string) (int64, error)
}

// SavingsEntryRepository defines the ledger repository interface
type SavingsEntryRepository interface {
	Create(ctx context.Context, entry *models.SavingsEntry) error
	GetByID(ctx context.Context, id string) (*models.SavingsEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// List pages entries newest first; since filters by entry date when non-nil
	List(ctx context.Context, offset, limit int, since *time.Time) ([]*models.SavingsEntry, int64, error)
	ListAll(ctx context.Context) ([]*models.SavingsEntry, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.SavingsEntry, error)
	SumByUserID(ctx context.Context, userID string) (decimal.Decimal, error)
	SumsByUser(ctx context.Context) (map[string]decimal.Decimal, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	List(ctx context.Context, offset, limit int, status string) ([]*models.Loan, int64, error)
	ListAll(ctx context.Context) ([]*models.Loan, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Loan, error)
}

// DebtRepository defines personal debt repository interface
type DebtRepository interface {
	Create(ctx context.Context, debt *models.Debt) error
	GetByID(ctx context.Context, id string) (*models.Debt, error)
	Update(ctx context.Context, debt *models.Debt) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	ListByUserID(ctx context.Context, userID string) ([]*models.Debt, error)
}

// GoalRepository defines savings goal repository interface
type GoalRepository interface {
	Create(ctx context.Context, goal *models.SavingsGoal) error
	GetByID(ctx context.Context, id string) (*models.SavingsGoal, error)
	Update(ctx context.Context, goal *models.SavingsGoal) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	ListByUserID(ctx context.Context, userID string) ([]*models.SavingsGoal, error)
}

// SettingsRepository defines per-user settings repository interface
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// SnapshotRepository defines fund snapshot repository interface
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.FundSnapshot) error
	GetByPeriod(ctx context.Context, period string) (*models.FundSnapshot, error)
	List(ctx context.Context, limit int) ([]*models.FundSnapshot, error)
}
