package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/types"
)

// Entry is one audit trail row to append.
type Entry struct {
	RequestID *uuid.UUID
	DealID    *uuid.UUID
	Event     enums.DealEvent
	Metadata  types.JSONMap
}

// Recorder appends to the deal action log. Writes are best-effort: failures
// are logged and swallowed so they can never fail the caller's transition.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry)
	ListForRequest(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DealActionLog, error)
	ListForDeal(ctx context.Context, dealID uuid.UUID, limit int) ([]models.DealActionLog, error)
}

type recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewRecorder builds the audit recorder.
func NewRecorder(db *gorm.DB, logg *logger.Logger) (Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("audit recorder requires a db")
	}
	if logg == nil {
		return nil, fmt.Errorf("audit recorder requires a logger")
	}
	return &recorder{db: db, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) {
	if entry.Event == "" {
		return
	}
	row := models.DealActionLog{
		RequestID: entry.RequestID,
		DealID:    entry.DealID,
		Event:     entry.Event,
		Metadata:  entry.Metadata,
	}
	var err error
	if tx != nil {
		// A failed insert would abort the caller's Postgres transaction and
		// take the transition down with it; the nested Transaction wraps the
		// insert in a savepoint so the rollback stays contained.
		err = tx.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return inner.Create(&row).Error
		})
	} else {
		err = r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		fields := map[string]any{"event": string(entry.Event)}
		if entry.RequestID != nil {
			fields["request_id"] = entry.RequestID.String()
		}
		if entry.DealID != nil {
			fields["deal_id"] = entry.DealID.String()
		}
		r.logg.Warn(r.logg.WithFields(ctx, fields), "audit log write failed")
	}
}

func (r *recorder) ListForRequest(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return r.list(ctx, "request_id = ?", requestID, limit)
}

func (r *recorder) ListForDeal(ctx context.Context, dealID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return r.list(ctx, "deal_id = ?", dealID, limit)
}

func (r *recorder) list(ctx context.Context, where string, id uuid.UUID, limit int) ([]models.DealActionLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.DealActionLog
	err := r.db.WithContext(ctx).
		Where(where, id).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
