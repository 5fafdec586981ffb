package deals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the creator deals list.
type ListFilters struct {
	Status   *enums.BrandDealStatus
	DealType *enums.DealType
	DateFrom *time.Time
	DateTo   *time.Time
}

// DealSummary exposes the aggregated fields returned in the deals list.
type DealSummary struct {
	ID         uuid.UUID             `json:"id"`
	RequestID  uuid.UUID             `json:"request_id"`
	BrandName  string                `json:"brand_name"`
	Status     enums.BrandDealStatus `json:"status"`
	DealType   enums.DealType        `json:"deal_type"`
	DealAmount decimal.Decimal       `json:"deal_amount"`
	Currency   string                `json:"currency"`
	Deadline   *time.Time            `json:"deadline,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// DealList wraps the paginated deals plus the next page cursor.
type DealList struct {
	Deals      []DealSummary `json:"deals"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// TransitionInput captures a creator-driven deal status change.
type TransitionInput struct {
	DealID    uuid.UUID
	CreatorID uuid.UUID
	Target    enums.BrandDealStatus
	ActorRole string
}

// DealDetail is the full deal payload returned by the creator API.
type DealDetail struct {
	ID          uuid.UUID             `json:"id"`
	RequestID   uuid.UUID             `json:"request_id"`
	BrandName   string                `json:"brand_name"`
	Status      enums.BrandDealStatus `json:"status"`
	DealType    enums.DealType        `json:"deal_type"`
	DealAmount  decimal.Decimal       `json:"deal_amount"`
	Currency    string                `json:"currency"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// DealDetailFromModel maps a stored deal onto the API payload.
func DealDetailFromModel(m *models.BrandDeal) *DealDetail {
	if m == nil {
		return nil
	}
	return &DealDetail{
		ID:          m.ID,
		RequestID:   m.RequestID,
		BrandName:   m.BrandName,
		Status:      m.Status,
		DealType:    m.DealType,
		DealAmount:  m.DealAmount,
		Currency:    m.Currency,
		Deadline:    m.Deadline,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
