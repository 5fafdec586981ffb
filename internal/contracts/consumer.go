package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/idempotency"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

const contractConsumer = "contract-generation"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type dealFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BrandDeal, error)
}

type requestFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error)
}

type creatorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Consumer renders a contract document for every freshly created deal.
type Consumer struct {
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	repo         Repository
	tx           txRunner
	outbox       outboxPublisher
	generator    Generator
	deals        dealFinder
	requests     requestFinder
	creators     creatorFinder
	recorder     audit.Recorder
	logg         *logger.Logger
}

// ConsumerParams bundles the consumer dependencies.
type ConsumerParams struct {
	Subscription *pubsub.Subscriber
	Idempotency  *idempotency.Manager
	Repo         Repository
	TxRunner     txRunner
	Outbox       outboxPublisher
	Generator    Generator
	Deals        dealFinder
	Requests     requestFinder
	Creators     creatorFinder
	Recorder     audit.Recorder
	Logger       *logger.Logger
}

// NewConsumer builds a contract generation consumer.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("deal events subscription required")
	}
	if params.Idempotency == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("document generator required")
	}
	if params.Deals == nil || params.Requests == nil || params.Creators == nil {
		return nil, fmt.Errorf("deal, request, and creator finders required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: params.Subscription,
		idempotency:  params.Idempotency,
		repo:         params.Repo,
		tx:           params.TxRunner,
		outbox:       params.Outbox,
		generator:    params.Generator,
		deals:        params.Deals,
		requests:     params.Requests,
		creators:     params.Creators,
		recorder:     params.Recorder,
		logg:         params.Logger,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != string(enums.EventBrandDealCreated) {
		c.logg.Info(logCtx, "skipping non-deal-creation event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, contractConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	var payload payloads.BrandDealCreatedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		return processResult{ack: true}
	}

	if err := c.generateForDeal(ctx, payload.DealID, logCtx); err != nil {
		c.logg.Error(logCtx, "contract generation failed", err)
		_ = c.idempotency.Delete(ctx, contractConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) generateForDeal(ctx context.Context, dealID uuid.UUID, logCtx context.Context) error {
	deal, err := c.deals.FindByID(ctx, dealID)
	if err != nil {
		return fmt.Errorf("load deal: %w", err)
	}
	request, err := c.requests.FindByID(ctx, deal.RequestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	creator, err := c.creators.FindByID(ctx, deal.CreatorID)
	if err != nil {
		return fmt.Errorf("load creator: %w", err)
	}

	contract, err := c.ensureContract(ctx, deal)
	if err != nil {
		return err
	}
	if contract.Status == enums.ContractStatusGenerated {
		c.logg.Info(logCtx, "contract already generated")
		return nil
	}

	path, err := c.generator.Generate(ctx, GenerateInput{
		Contract: contract,
		Deal:     deal,
		Request:  request,
		Creator:  creator,
	})
	if err != nil {
		c.markFailed(ctx, contract, deal, err)
		return err
	}

	generatedAt := time.Now().UTC()
	err = c.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := c.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, contract.ID, enums.ContractStatusGenerated, map[string]any{
			"document_path": path,
			"generated_at":  generatedAt,
			"last_error":    nil,
		}); err != nil {
			return fmt.Errorf("mark contract generated: %w", err)
		}

		c.recorder.Record(ctx, tx, audit.Entry{
			RequestID: &deal.RequestID,
			DealID:    &deal.ID,
			Event:     enums.DealEventContractGenerated,
			Metadata:  map[string]any{"contract_id": contract.ID.String(), "document_path": path},
		})

		// Redelivered work can reach this emit twice; the dedupe index makes
		// the second insert a no-op.
		return c.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventContractGenerated,
			AggregateType: enums.AggregateContract,
			AggregateID:   contract.ID,
			Version:       1,
			Data: payloads.ContractGeneratedEvent{
				ContractID:   contract.ID,
				DealID:       deal.ID,
				CreatorID:    deal.CreatorID,
				DocumentPath: path,
				GeneratedAt:  generatedAt,
			},
		})
	})
	if err != nil {
		return err
	}

	c.logg.Info(logCtx, "contract generated")
	return nil
}

// ensureContract returns the contract row for the deal, creating the
// requested-state row on first delivery.
func (c *Consumer) ensureContract(ctx context.Context, deal *models.BrandDeal) (*models.Contract, error) {
	contract, err := c.repo.FindByDealID(ctx, deal.ID)
	if err == nil {
		return contract, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load contract: %w", err)
	}

	created, err := c.repo.Create(ctx, &models.Contract{
		DealID:    deal.ID,
		RequestID: deal.RequestID,
		Status:    enums.ContractStatusRequested,
	})
	if err != nil {
		// A concurrent delivery may have inserted the row first.
		if existing, findErr := c.repo.FindByDealID(ctx, deal.ID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return created, nil
}

func (c *Consumer) markFailed(ctx context.Context, contract *models.Contract, deal *models.BrandDeal, cause error) {
	message := cause.Error()
	if err := c.repo.UpdateStatus(ctx, contract.ID, enums.ContractStatusFailed, map[string]any{
		"last_error": message,
	}); err != nil {
		c.logg.Error(ctx, "failed to mark contract failed", err)
	}
	c.recorder.Record(ctx, nil, audit.Entry{
		RequestID: &deal.RequestID,
		DealID:    &deal.ID,
		Event:     enums.DealEventContractFailed,
		Metadata:  map[string]any{"contract_id": contract.ID.String(), "error": message},
	})
}
