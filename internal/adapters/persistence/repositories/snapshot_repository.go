package repositories

import (
	"context"

	"savingsfund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// snapshotRepository implements SnapshotRepository interface
type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new fund snapshot repository
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Create stores a snapshot; period is unique
func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.FundSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// GetByPeriod gets the snapshot of a YYYY-MM period
func (r *snapshotRepository) GetByPeriod(ctx context.Context, period string) (*models.FundSnapshot, error) {
	var snapshot models.FundSnapshot
	err := r.db.WithContext(ctx).Where("period = ?", period).First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List lists the most recent snapshots, newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*models.FundSnapshot, error) {
	var snapshots []*models.FundSnapshot
	err := r.db.WithContext(ctx).Order("period DESC").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}
