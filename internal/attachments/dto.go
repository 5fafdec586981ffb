package attachments

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// AttachmentDTO is the attachment payload returned by the creator API.
type AttachmentDTO struct {
	ID         uuid.UUID        `json:"id"`
	DealID     uuid.UUID        `json:"deal_id"`
	FileName   string           `json:"file_name"`
	SizeBytes  int64            `json:"size_bytes"`
	ScanStatus enums.ScanStatus `json:"scan_status"`
	ScannedAt  *time.Time       `json:"scanned_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// FromModel maps a stored attachment onto the API payload. The object path
// stays internal; clients fetch content through signed download URLs.
func FromModel(m *models.Attachment) *AttachmentDTO {
	if m == nil {
		return nil
	}
	return &AttachmentDTO{
		ID:         m.ID,
		DealID:     m.DealID,
		FileName:   m.FileName,
		SizeBytes:  m.SizeBytes,
		ScanStatus: m.ScanStatus,
		ScannedAt:  m.ScannedAt,
		CreatedAt:  m.CreatedAt,
	}
}

// FromModels maps a list of attachments onto API payloads.
func FromModels(rows []models.Attachment) []AttachmentDTO {
	out := make([]AttachmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
