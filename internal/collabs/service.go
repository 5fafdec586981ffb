package collabs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	dbpkg "github.com/creatorlane/creatorlane-backend/pkg/db"
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

// errGuardMissed aborts the transaction when the status guard loses a race;
// the caller reloads the row and discriminates the outcome.
var errGuardMissed = errors.New("status guard missed")

// Service is the collaboration request state machine. All brand-side
// transitions flow through ApplyAction regardless of transport.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.CollabRequest, error)
	Get(ctx context.Context, creatorID, requestID uuid.UUID) (*models.CollabRequest, error)
	List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*RequestList, error)
	ApplyAction(ctx context.Context, input ActionInput) (*ActionResult, error)
	ExpireStale(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

type service struct {
	repo   Repository
	deals  deals.Repository
	tx     txRunner
	outbox outboxPublisher
	audit  audit.Recorder
}

// NewService builds the state machine with the required dependencies.
func NewService(repo Repository, dealRepo deals.Repository, tx txRunner, outboxSvc outboxPublisher, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("collab requests repository required")
	}
	if dealRepo == nil {
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
	return &service{
		repo:   repo,
		deals:  dealRepo,
		tx:     tx,
		outbox: outboxSvc,
		audit:  recorder,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.CollabRequest, error) {
	if input.CreatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing")
	}
	if strings.TrimSpace(input.BrandName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name required")
	}
	if strings.TrimSpace(input.BrandEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand email required")
	}
	if !input.DealType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal type")
	}
	if input.DealAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal amount must not be negative")
	}
	if strings.TrimSpace(input.Deliverables) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deliverables required")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	request := &models.CollabRequest{
		CreatorID:    input.CreatorID,
		BrandName:    strings.TrimSpace(input.BrandName),
		BrandEmail:   strings.TrimSpace(input.BrandEmail),
		BrandPhone:   input.BrandPhone,
		Status:       enums.CollabRequestStatusPending,
		DealType:     input.DealType,
		DealAmount:   input.DealAmount,
		Currency:     currency,
		Deliverables: input.Deliverables,
		Deadline:     input.Deadline,
		Message:      input.Message,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create collab request")
		}
		s.audit.Record(ctx, tx, audit.Entry{
			RequestID: &request.ID,
			Event:     enums.DealEventRequestCreated,
			Metadata:  map[string]any{"brand_email": request.BrandEmail, "deal_type": string(request.DealType)},
		})
		creator := request.CreatorID
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCollabRequestCreated,
			AggregateType: enums.AggregateCollabRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{CreatorID: &creator, Role: "creator"},
			Data: payloads.CollabRequestCreatedEvent{
				RequestID:  request.ID,
				CreatorID:  request.CreatorID,
				BrandName:  request.BrandName,
				BrandEmail: request.BrandEmail,
				DealType:   request.DealType,
				DealAmount: request.DealAmount,
				Currency:   request.Currency,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) Get(ctx context.Context, creatorID, requestID uuid.UUID) (*models.CollabRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if request.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
	}
	return request, nil
}

func (s *service) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters ListFilters) (*RequestList, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing")
	}
	list, err := s.repo.List(ctx, creatorID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return list, nil
}

// ApplyAction resolves a brand action against the request. Repeat deliveries
// of an already-applied action succeed idempotently; a different terminal
// outcome reports a conflict. The action is never trusted from the client, it
// arrives here already derived from a verified token or an owned resource.
func (s *service) ApplyAction(ctx context.Context, input ActionInput) (*ActionResult, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown action kind")
	}
	if input.Action == enums.CollabActionCounter && input.CounterTerms == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter terms required")
	}
	target, err := input.Action.TargetStatus()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve target status")
	}

	request, err := s.repo.FindByID(ctx, input.RequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if request.Status.IsTerminal() {
		return terminalResult(request, target), nil
	}

	var result *ActionResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		switch input.Action {
		case enums.CollabActionAccept:
			result, txErr = s.applyAccept(ctx, tx, request)
		case enums.CollabActionDecline:
			result, txErr = s.applyDecline(ctx, tx, request)
		case enums.CollabActionCounter:
			result, txErr = s.applyCounter(ctx, tx, request, *input.CounterTerms)
		default:
			txErr = pkgerrors.New(pkgerrors.CodeInternal, "unknown action kind")
		}
		return txErr
	})
	if errors.Is(err, errGuardMissed) {
		// Lost the race; reload and discriminate against the winner.
		fresh, loadErr := s.repo.FindByID(ctx, input.RequestID)
		if loadErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "reload request after race")
		}
		if !fresh.Status.IsTerminal() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request changed concurrently")
		}
		return terminalResult(fresh, target), nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// terminalResult discriminates a terminal request against the requested
// target: same outcome is an idempotent success, anything else a conflict.
func terminalResult(request *models.CollabRequest, target enums.CollabRequestStatus) *ActionResult {
	if request.Status == target {
		return &ActionResult{
			Outcome: OutcomeAlreadyApplied,
			Status:  request.Status,
			DealID:  request.DealID,
		}
	}
	return &ActionResult{
		Outcome: OutcomeConflict,
		Status:  request.Status,
		DealID:  request.DealID,
	}
}

// applyAccept creates the deal before flipping the request; the guarded flip
// is the commit point for the whole acceptance.
func (s *service) applyAccept(ctx context.Context, tx *gorm.DB, request *models.CollabRequest) (*ActionResult, error) {
	repo := s.repo.WithTx(tx)
	dealRepo := s.deals.WithTx(tx)

	deal := &models.BrandDeal{
		CreatorID:  request.CreatorID,
		RequestID:  request.ID,
		BrandName:  request.BrandName,
		Status:     enums.BrandDealStatusDrafting,
		DealType:   request.DealType,
		DealAmount: request.DealAmount,
		Currency:   request.Currency,
		Deadline:   request.Deadline,
	}
	if _, err := dealRepo.Create(ctx, deal); err != nil {
		if dbpkg.IsUniqueViolation(err, "idx_brand_deals_request_id") {
			return nil, errGuardMissed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deal")
	}

	flipped, err := repo.UpdateStatusGuarded(ctx, request.ID, enums.CollabRequestStatusPending, map[string]any{
		"status":  enums.CollabRequestStatusAccepted,
		"deal_id": deal.ID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip request to accepted")
	}
	if !flipped {
		return nil, errGuardMissed
	}

	s.audit.Record(ctx, tx, audit.Entry{
		RequestID: &request.ID,
		DealID:    &deal.ID,
		Event:     enums.DealEventRequestAccepted,
		Metadata:  map[string]any{"brand_email": request.BrandEmail},
	})
	s.audit.Record(ctx, tx, audit.Entry{
		RequestID: &request.ID,
		DealID:    &deal.ID,
		Event:     enums.DealEventDealCreated,
	})

	now := time.Now().UTC()
	actor := &outbox.ActorRef{Role: "brand"}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCollabRequestAccepted,
		AggregateType: enums.AggregateCollabRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         actor,
		Data: payloads.CollabRequestAcceptedEvent{
			RequestID:  request.ID,
			CreatorID:  request.CreatorID,
			DealID:     deal.ID,
			BrandEmail: request.BrandEmail,
			AcceptedAt: now,
		},
	}); err != nil {
		return nil, err
	}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventBrandDealCreated,
		AggregateType: enums.AggregateBrandDeal,
		AggregateID:   deal.ID,
		Version:       1,
		Actor:         actor,
		Data: payloads.BrandDealCreatedEvent{
			DealID:     deal.ID,
			RequestID:  request.ID,
			CreatorID:  request.CreatorID,
			Status:     deal.Status,
			DealAmount: deal.DealAmount,
			Currency:   deal.Currency,
		},
	}); err != nil {
		return nil, err
	}

	dealID := deal.ID
	return &ActionResult{
		Outcome: OutcomeApplied,
		Status:  enums.CollabRequestStatusAccepted,
		DealID:  &dealID,
	}, nil
}

func (s *service) applyDecline(ctx context.Context, tx *gorm.DB, request *models.CollabRequest) (*ActionResult, error) {
	flipped, err := s.repo.WithTx(tx).UpdateStatusGuarded(ctx, request.ID, enums.CollabRequestStatusPending, map[string]any{
		"status": enums.CollabRequestStatusDeclined,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip request to declined")
	}
	if !flipped {
		return nil, errGuardMissed
	}

	s.audit.Record(ctx, tx, audit.Entry{
		RequestID: &request.ID,
		Event:     enums.DealEventRequestDeclined,
		Metadata:  map[string]any{"brand_email": request.BrandEmail},
	})

	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCollabRequestDeclined,
		AggregateType: enums.AggregateCollabRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{Role: "brand"},
		Data: payloads.CollabRequestDeclinedEvent{
			RequestID:  request.ID,
			CreatorID:  request.CreatorID,
			BrandEmail: request.BrandEmail,
			DeclinedAt: time.Now().UTC(),
		},
	}); err != nil {
		return nil, err
	}

	return &ActionResult{
		Outcome: OutcomeApplied,
		Status:  enums.CollabRequestStatusDeclined,
	}, nil
}

// applyCounter durably creates the child request before the parent flips, so
// a crash between the two never loses the brand's proposed terms.
func (s *service) applyCounter(ctx context.Context, tx *gorm.DB, request *models.CollabRequest, terms CounterTerms) (*ActionResult, error) {
	if terms.DealAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter amount must not be negative")
	}
	if strings.TrimSpace(terms.Deliverables) == "" {
		terms.Deliverables = request.Deliverables
	}
	currency := strings.ToUpper(strings.TrimSpace(terms.Currency))
	if currency == "" {
		currency = request.Currency
	}

	repo := s.repo.WithTx(tx)
	parentID := request.ID
	child := &models.CollabRequest{
		CreatorID:    request.CreatorID,
		BrandName:    request.BrandName,
		BrandEmail:   request.BrandEmail,
		BrandPhone:   request.BrandPhone,
		Status:       enums.CollabRequestStatusPending,
		SupersedesID: &parentID,
		DealType:     request.DealType,
		DealAmount:   terms.DealAmount,
		Currency:     currency,
		Deliverables: terms.Deliverables,
		Deadline:     terms.Deadline,
		Message:      terms.Message,
	}
	if _, err := repo.Create(ctx, child); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create counter request")
	}

	flipped, err := repo.UpdateStatusGuarded(ctx, request.ID, enums.CollabRequestStatusPending, map[string]any{
		"status": enums.CollabRequestStatusCountered,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip request to countered")
	}
	if !flipped {
		return nil, errGuardMissed
	}

	s.audit.Record(ctx, tx, audit.Entry{
		RequestID: &request.ID,
		Event:     enums.DealEventRequestCountered,
		Metadata:  map[string]any{"new_request_id": child.ID.String()},
	})

	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCollabRequestCountered,
		AggregateType: enums.AggregateCollabRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{Role: "brand"},
		Data: payloads.CollabRequestCounteredEvent{
			RequestID:    request.ID,
			NewRequestID: child.ID,
			CreatorID:    request.CreatorID,
			BrandEmail:   request.BrandEmail,
			DealAmount:   child.DealAmount,
			Currency:     child.Currency,
		},
	}); err != nil {
		return nil, err
	}

	childID := child.ID
	return &ActionResult{
		Outcome:      OutcomeApplied,
		Status:       enums.CollabRequestStatusCountered,
		NewRequestID: &childID,
	}, nil
}

// ExpireStale flips pending requests older than cutoff to expired through the
// same guard used by brand actions. Returns how many rows were expired.
func (s *service) ExpireStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	stale, err := s.repo.FindPendingBefore(ctx, cutoff, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stale requests")
	}

	expired := 0
	var errs error
	for _, request := range stale {
		request := request
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			flipped, err := s.repo.WithTx(tx).UpdateStatusGuarded(ctx, request.ID, enums.CollabRequestStatusPending, map[string]any{
				"status": enums.CollabRequestStatusExpired,
			})
			if err != nil {
				return err
			}
			if !flipped {
				// Actioned since the scan; nothing to do.
				return nil
			}

			s.audit.Record(ctx, tx, audit.Entry{
				RequestID: &request.ID,
				Event:     enums.DealEventRequestExpired,
			})
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventCollabRequestExpired,
				AggregateType: enums.AggregateCollabRequest,
				AggregateID:   request.ID,
				Version:       1,
				Data: payloads.CollabRequestExpiredEvent{
					RequestID:  request.ID,
					CreatorID:  request.CreatorID,
					BrandEmail: request.BrandEmail,
					ExpiredAt:  time.Now().UTC(),
				},
			}); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire request %s: %w", request.ID, err))
		}
	}
	return expired, errs
}
