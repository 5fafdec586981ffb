package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// BrandDeal is created exactly once, by the state machine, when a collab
// request is accepted. RequestID points back at the accepted request.
type BrandDeal struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID   uuid.UUID             `gorm:"column:creator_id;type:uuid;not null;index"`
	RequestID   uuid.UUID             `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	BrandName   string                `gorm:"column:brand_name;type:text;not null"`
	Status      enums.BrandDealStatus `gorm:"column:status;type:brand_deal_status;not null;default:'drafting'"`
	DealType    enums.DealType        `gorm:"column:deal_type;type:deal_type;not null"`
	DealAmount  decimal.Decimal       `gorm:"column:deal_amount;type:numeric(12,2);not null"`
	Currency    string                `gorm:"column:currency;type:text;not null;default:'USD'"`
	Deadline    *time.Time            `gorm:"column:deadline;type:timestamptz"`
	CompletedAt *time.Time            `gorm:"column:completed_at"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
