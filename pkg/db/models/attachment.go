package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Attachment is a file a creator pinned to a deal (briefs, signed copies).
// Scanning is delegated to an external scanner; verdicts are recorded here
// and echoed into the action log.
type Attachment struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealID     uuid.UUID        `gorm:"column:deal_id;type:uuid;not null;index"`
	FileName   string           `gorm:"column:file_name;type:text;not null"`
	ObjectPath string           `gorm:"column:object_path;type:text;not null"`
	SizeBytes  int64            `gorm:"column:size_bytes;not null"`
	ScanStatus enums.ScanStatus `gorm:"column:scan_status;type:scan_status;not null;default:'error'"`
	ScannedAt  *time.Time       `gorm:"column:scanned_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
