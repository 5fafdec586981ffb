package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// CollabRequest is a collaboration proposal between a creator and a brand
// contact. The brand side is sessionless; all brand mutations arrive through
// signed action links and land here via the state machine.
//
// Invariants: DealID is set if and only if Status is accepted. Countering
// creates a child request referencing the parent through SupersedesID; the
// parent becomes terminal. Terms are immutable once created — new terms are
// always a new (child) request.
type CollabRequest struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID    uuid.UUID                 `gorm:"column:creator_id;type:uuid;not null;index"`
	BrandName    string                    `gorm:"column:brand_name;type:text;not null"`
	BrandEmail   string                    `gorm:"column:brand_email;type:text;not null"`
	BrandPhone   *string                   `gorm:"column:brand_phone;type:text"`
	Status       enums.CollabRequestStatus `gorm:"column:status;type:collab_request_status;not null;default:'pending'"`
	DealID       *uuid.UUID                `gorm:"column:deal_id;type:uuid"`
	SupersedesID *uuid.UUID                `gorm:"column:supersedes_id;type:uuid"`
	DealType     enums.DealType            `gorm:"column:deal_type;type:deal_type;not null"`
	DealAmount   decimal.Decimal           `gorm:"column:deal_amount;type:numeric(12,2);not null"`
	Currency     string                    `gorm:"column:currency;type:text;not null;default:'USD'"`
	Deliverables string                    `gorm:"column:deliverables;type:text;not null"`
	Deadline     *time.Time                `gorm:"column:deadline;type:timestamptz"`
	Message      *string                   `gorm:"column:message;type:text"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
