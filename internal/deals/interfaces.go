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

// Repository defines persistence operations for brand deals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, deal *models.BrandDeal) (*models.BrandDeal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BrandDeal, error)
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*models.BrandDeal, error)
	List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error)
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, expected enums.BrandDealStatus, updates map[string]any) (bool, error)
	FindOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.BrandDeal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
