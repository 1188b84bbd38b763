package repositories

import (
	"context"

	"savingsfund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// Delete hard deletes a loan
func (r *loanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Loan{}).Error
}

// DeleteByUserID removes every loan of a borrower
func (r *loanRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Loan{}).Error
}

// List lists loans newest first, optionally filtered by status
func (r *loanRepository) List(ctx context.Context, offset, limit int, status string) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ListAll lists every loan oldest first
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&loans).Error
	return loans, err
}

// ListByUserID lists a borrower's loans newest first
func (r *loanRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&loans).Error
	return loans, err
}
