package deals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, deal *models.BrandDeal) (*models.BrandDeal, error) {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BrandDeal, error) {
	var deal models.BrandDeal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&deal).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *repository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*models.BrandDeal, error) {
	var deal models.BrandDeal
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&deal).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *repository) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.BrandDeal{}).
		Where("creator_id = ?", creatorID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DealType != nil {
		query = query.Where("deal_type = ?", *filters.DealType)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.BrandDeal
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &DealList{Deals: make([]DealSummary, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, deal := range rows {
		list.Deals = append(list.Deals, DealSummary{
			ID:         deal.ID,
			RequestID:  deal.RequestID,
			BrandName:  deal.BrandName,
			Status:     deal.Status,
			DealType:   deal.DealType,
			DealAmount: deal.DealAmount,
			Currency:   deal.Currency,
			Deadline:   deal.Deadline,
			CreatedAt:  deal.CreatedAt,
		})
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

// UpdateStatusGuarded flips the deal status only when the current status still
// matches expected. Returns false when the guard misses.
func (r *repository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, expected enums.BrandDealStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BrandDeal{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.BrandDeal, error) {
	var rows []models.BrandDeal
	err := r.db.WithContext(ctx).
		Joins("JOIN collab_requests ON collab_requests.id = brand_deals.request_id").
		Where("collab_requests.status <> ?", enums.CollabRequestStatusAccepted).
		Where("brand_deals.status = ?", enums.BrandDealStatusDrafting).
		Where("brand_deals.created_at < ?", cutoff).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BrandDeal{}).Error
}
