package contracts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Repository persists contract rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, contract *models.Contract) (*models.Contract, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	FindByDealID(ctx context.Context, dealID uuid.UUID) (*models.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus, updates map[string]any) error
}

// GenerateInput carries everything the generator needs to render a document.
type GenerateInput struct {
	Contract *models.Contract
	Deal     *models.BrandDeal
	Request  *models.CollabRequest
	Creator  *models.User
}

// Generator renders a contract document and stores it, returning the object path.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}
