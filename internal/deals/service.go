package deals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines deal-level operations for the creator API.
type Service interface {
	Get(ctx context.Context, creatorID, dealID uuid.UUID) (*models.BrandDeal, error)
	List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error)
	Transition(ctx context.Context, input TransitionInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	audit  audit.Recorder
}

// NewService builds a deals service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, audit: recorder}, nil
}

func (s *service) Get(ctx context.Context, creatorID, dealID uuid.UUID) (*models.BrandDeal, error) {
	if dealID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal id required")
	}
	deal, err := s.repo.FindByID(ctx, dealID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
	}
	if deal.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	return deal, nil
}

func (s *service) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing")
	}
	list, err := s.repo.List(ctx, creatorID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deals")
	}
	return list, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) error {
	if input.DealID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal id required")
	}
	if input.CreatorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing")
	}
	if !input.Target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid deal status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deal, err := repo.FindByID(ctx, input.DealID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
		}
		if deal.CreatorID != input.CreatorID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		if deal.Status == input.Target {
			return nil
		}
		if !deal.Status.CanTransitionTo(input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deal transition not allowed in current state")
		}

		updates := map[string]any{"status": input.Target}
		if input.Target == enums.BrandDealStatusCompleted {
			updates["completed_at"] = time.Now().UTC()
		}
		flipped, err := repo.UpdateStatusGuarded(ctx, deal.ID, deal.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update deal status")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deal changed concurrently")
		}

		s.audit.Record(ctx, tx, audit.Entry{
			RequestID: &deal.RequestID,
			DealID:    &deal.ID,
			Event:     enums.DealEventDealStatusChanged,
			Metadata:  map[string]any{"from": string(deal.Status), "to": string(input.Target)},
		})

		creator := deal.CreatorID
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBrandDealStatusChanged,
			AggregateType: enums.AggregateBrandDeal,
			AggregateID:   deal.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CreatorID: &creator, Role: input.ActorRole},
			Data: payloads.BrandDealStatusChangedEvent{
				DealID:    deal.ID,
				RequestID: deal.RequestID,
				CreatorID: deal.CreatorID,
				From:      deal.Status,
				To:        input.Target,
			},
		})
	})
}
