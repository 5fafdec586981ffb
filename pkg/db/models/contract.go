package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Contract tracks the document generated for an accepted deal. The document
// body lives in object storage; DocumentPath is the bucket object key.
type Contract struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealID       uuid.UUID            `gorm:"column:deal_id;type:uuid;not null;uniqueIndex"`
	RequestID    uuid.UUID            `gorm:"column:request_id;type:uuid;not null"`
	Status       enums.ContractStatus `gorm:"column:status;type:contract_status;not null;default:'requested'"`
	DocumentPath *string              `gorm:"column:document_path;type:text"`
	LastError    *string              `gorm:"column:last_error;type:text"`
	GeneratedAt  *time.Time           `gorm:"column:generated_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
