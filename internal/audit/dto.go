package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/types"
)

// LogEntryDTO is one audit trail row as returned by the creator API.
type LogEntryDTO struct {
	ID        uuid.UUID       `json:"id"`
	RequestID *uuid.UUID      `json:"request_id,omitempty"`
	DealID    *uuid.UUID      `json:"deal_id,omitempty"`
	Event     enums.DealEvent `json:"event"`
	Metadata  types.JSONMap   `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromModels maps stored log rows onto API payloads.
func FromModels(rows []models.DealActionLog) []LogEntryDTO {
	out := make([]LogEntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, LogEntryDTO{
			ID:        row.ID,
			RequestID: row.RequestID,
			DealID:    row.DealID,
			Event:     row.Event,
			Metadata:  row.Metadata,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
