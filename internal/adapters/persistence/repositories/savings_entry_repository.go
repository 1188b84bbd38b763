package repositories

import (
	"context"
	"time"

	"savingsfund/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// savingsEntryRepository implements SavingsEntryRepository interface
type savingsEntryRepository struct {
	db *gorm.DB
}

// NewSavingsEntryRepository creates a new ledger repository
func NewSavingsEntryRepository(db *gorm.DB) SavingsEntryRepository {
	return &savingsEntryRepository{db: db}
}

// Create appends an entry to the ledger
func (r *savingsEntryRepository) Create(ctx context.Context, entry *models.SavingsEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets an entry by ID
func (r *savingsEntryRepository) GetByID(ctx context.Context, id string) (*models.SavingsEntry, error) {
	var entry models.SavingsEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry
func (r *savingsEntryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavingsEntry{}).Error
}

// DeleteByUserID removes every entry of a user
func (r *savingsEntryRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SavingsEntry{}).Error
}

// List lists entries newest first with pagination
func (r *savingsEntryRepository) List(ctx context.Context, offset, limit int, since *time.Time) ([]*models.SavingsEntry, int64, error) {
	var entries []*models.SavingsEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SavingsEntry{})
	if since != nil {
		query = query.Where("date >= ?", *since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("date DESC, created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListAll lists the whole ledger oldest first
func (r *savingsEntryRepository) ListAll(ctx context.Context) ([]*models.SavingsEntry, error) {
	var entries []*models.SavingsEntry
	err := r.db.WithContext(ctx).Order("date ASC, created_at ASC").Find(&entries).Error
	return entries, err
}

// ListByUserID lists a user's entries newest first
func (r *savingsEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*models.SavingsEntry, error) {
	var entries []*models.SavingsEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

// SumByUserID sums a user's entries. Amounts are summed in Go so every
// driver gives the same exact decimal result.
func (r *savingsEntryRepository) SumByUserID(ctx context.Context, userID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.SavingsEntry{}).
		Where("user_id = ?", userID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// SumsByUser returns every user's ledger total keyed by user ID
func (r *savingsEntryRepository) SumsByUser(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []struct {
		UserID string
		Amount decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.SavingsEntry{}).
		Select("user_id, amount").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, row := range rows {
		sums[row.UserID] = sums[row.UserID].Add(row.Amount)
	}
	return sums, nil
}
