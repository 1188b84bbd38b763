package repositories

import (
	"context"

	"savingsfund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// debtRepository implements DebtRepository interface
type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *gorm.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Create(debt).Error
}

func (r *debtRepository) GetByID(ctx context.Context, id string) (*models.Debt, error) {
	var debt models.Debt
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&debt).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Save(debt).Error
}

func (r *debtRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Debt{}).Error
}

func (r *debtRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Debt{}).Error
}

func (r *debtRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Debt, error) {
	var debts []*models.Debt
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&debts).Error
	return debts, err
}

// goalRepository implements GoalRepository interface
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new savings goal repository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.SavingsGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *models.SavingsGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavingsGoal{}).Error
}

func (r *goalRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SavingsGoal{}).Error
}

func (r *goalRepository) ListByUserID(ctx context.Context, userID string) ([]*models.SavingsGoal, error) {
	var goals []*models.SavingsGoal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("deadline ASC").Find(&goals).Error
	return goals, err
}

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID returns gorm.ErrRecordNotFound when the user never saved settings
func (r *settingsRepository) GetByUserID(ctx context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save inserts or replaces the user's settings row
func (r *settingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *settingsRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Settings{}).Error
}
