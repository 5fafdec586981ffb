package attachments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Repository persists deal attachments.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an attachments repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *Repository) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// RecordScan stores the scanner verdict for the attachment.
func (r *Repository) RecordScan(ctx context.Context, id uuid.UUID, status enums.ScanStatus, scannedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"scan_status": status,
			"scanned_at":  scannedAt,
		}).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Attachment{}).Error
}
