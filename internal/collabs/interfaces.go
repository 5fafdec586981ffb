package collabs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

// Repository defines persistence operations for collaboration requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.CollabRequest) (*models.CollabRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error)
	List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*RequestList, error)
	// UpdateStatusGuarded flips the request status only while the current
	// status still matches expected; reports whether a row changed.
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, expected enums.CollabRequestStatus, updates map[string]any) (bool, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.CollabRequest, error)
}
