package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/types"
)

// DealActionLog is the append-only audit trail. Every state transition and
// every notable side-effect attempt (success or failure) produces exactly one
// row. Writes are best-effort and never fail the primary transition.
type DealActionLog struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID *uuid.UUID      `gorm:"column:request_id;type:uuid;index"`
	DealID    *uuid.UUID      `gorm:"column:deal_id;type:uuid;index"`
	Event     enums.DealEvent `gorm:"column:event;type:deal_event;not null"`
	Metadata  types.JSONMap   `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
