package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/idempotency"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

const dealNotificationConsumer = "deal-notifications"

type requestFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error)
}

type creatorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Consumer watches deal lifecycle events and turns them into emails.
type Consumer struct {
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	notifier     Notifier
	links        *collabs.LinkBuilder
	requests     requestFinder
	creators     creatorFinder
	recorder     audit.Recorder
	logg         *logger.Logger
}

// ConsumerParams bundles the consumer dependencies.
type ConsumerParams struct {
	Subscription *pubsub.Subscriber
	Idempotency  *idempotency.Manager
	Notifier     Notifier
	Links        *collabs.LinkBuilder
	Requests     requestFinder
	Creators     creatorFinder
	Recorder     audit.Recorder
	Logger       *logger.Logger
}

// NewConsumer builds a deal notification consumer.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("deal events subscription required")
	}
	if params.Idempotency == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Links == nil {
		return nil, fmt.Errorf("link builder required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("request finder required")
	}
	if params.Creators == nil {
		return nil, fmt.Errorf("creator finder required")
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
		notifier:     params.Notifier,
		links:        params.Links,
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

	handler, ok := c.handlerFor(enums.OutboxEventType(eventType))
	if !ok {
		c.logg.Info(logCtx, "skipping event with no email handler")
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

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, dealNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := handler(ctx, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, dealNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

type eventHandler func(ctx context.Context, data json.RawMessage, logCtx context.Context) error

func (c *Consumer) handlerFor(eventType enums.OutboxEventType) (eventHandler, bool) {
	switch eventType {
	case enums.EventCollabRequestCreated:
		return c.handleRequestCreated, true
	case enums.EventCollabRequestAccepted:
		return c.handleRequestAccepted, true
	case enums.EventCollabRequestDeclined:
		return c.handleRequestDeclined, true
	case enums.EventCollabRequestCountered:
		return c.handleRequestCountered, true
	case enums.EventCollabRequestExpired:
		return c.handleRequestExpired, true
	case enums.EventContractGenerated:
		return c.handleContractGenerated, true
	default:
		return nil, false
	}
}

// handleRequestCreated mails the brand their proposal with signed accept and
// decline links. The links are minted here rather than at create time so a
// redelivered message always carries unexpired links.
func (c *Consumer) handleRequestCreated(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.CollabRequestCreatedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse created payload: %w", err)
	}

	request, err := c.requests.FindByID(ctx, payload.RequestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	creator, err := c.creators.FindByID(ctx, request.CreatorID)
	if err != nil {
		return fmt.Errorf("load creator: %w", err)
	}
	links, err := c.links.Build(request.ID)
	if err != nil {
		return fmt.Errorf("build action links: %w", err)
	}

	msg := Message{
		Template: enums.TemplateCollabProposal,
		To:       request.BrandEmail,
		ToName:   request.BrandName,
		Data: TemplateData{
			BrandName:    request.BrandName,
			CreatorName:  creator.DisplayName,
			DealType:     request.DealType,
			DealAmount:   request.DealAmount,
			Currency:     request.Currency,
			Deliverables: request.Deliverables,
			Deadline:     request.Deadline,
			AcceptURL:    links.Accept,
			DeclineURL:   links.Decline,
		},
	}
	return c.deliver(ctx, msg, &request.ID, nil, logCtx)
}

func (c *Consumer) handleRequestAccepted(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.CollabRequestAcceptedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse accepted payload: %w", err)
	}
	return c.notifyDecision(ctx, payload.RequestID, enums.TemplateCreatorAccepted, "accepted", &payload.DealID, logCtx)
}

func (c *Consumer) handleRequestDeclined(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.CollabRequestDeclinedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse declined payload: %w", err)
	}
	return c.notifyDecision(ctx, payload.RequestID, enums.TemplateCreatorDeclined, "declined", nil, logCtx)
}

func (c *Consumer) handleRequestCountered(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.CollabRequestCounteredEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse countered payload: %w", err)
	}
	return c.notifyDecision(ctx, payload.RequestID, enums.TemplateCreatorCountered, "countered", nil, logCtx)
}

// notifyDecision tells the creator what the brand decided and sends the brand
// a confirmation receipt. Both sends must land before the event is acked.
func (c *Consumer) notifyDecision(ctx context.Context, requestID uuid.UUID, template enums.NotificationTemplate, action string, dealID *uuid.UUID, logCtx context.Context) error {
	request, err := c.requests.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	creator, err := c.creators.FindByID(ctx, request.CreatorID)
	if err != nil {
		return fmt.Errorf("load creator: %w", err)
	}

	data := TemplateData{
		BrandName:   request.BrandName,
		CreatorName: creator.DisplayName,
		DealType:    request.DealType,
		DealAmount:  request.DealAmount,
		Currency:    request.Currency,
		Action:      action,
	}

	creatorMsg := Message{
		Template: template,
		To:       creator.Email,
		ToName:   creator.DisplayName,
		Data:     data,
	}
	if err := c.deliver(ctx, creatorMsg, &request.ID, dealID, logCtx); err != nil {
		return err
	}

	brandMsg := Message{
		Template: enums.TemplateBrandConfirmation,
		To:       request.BrandEmail,
		ToName:   request.BrandName,
		Data:     data,
	}
	return c.deliver(ctx, brandMsg, &request.ID, dealID, logCtx)
}

func (c *Consumer) handleRequestExpired(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.CollabRequestExpiredEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse expired payload: %w", err)
	}

	request, err := c.requests.FindByID(ctx, payload.RequestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	creator, err := c.creators.FindByID(ctx, request.CreatorID)
	if err != nil {
		return fmt.Errorf("load creator: %w", err)
	}

	msg := Message{
		Template: enums.TemplateCreatorRequestLapsed,
		To:       creator.Email,
		ToName:   creator.DisplayName,
		Data: TemplateData{
			BrandName:   request.BrandName,
			CreatorName: creator.DisplayName,
		},
	}
	return c.deliver(ctx, msg, &request.ID, nil, logCtx)
}

func (c *Consumer) handleContractGenerated(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.ContractGeneratedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse contract payload: %w", err)
	}

	creator, err := c.creators.FindByID(ctx, payload.CreatorID)
	if err != nil {
		return fmt.Errorf("load creator: %w", err)
	}

	msg := Message{
		Template: enums.TemplateContractReady,
		To:       creator.Email,
		ToName:   creator.DisplayName,
		Data: TemplateData{
			CreatorName: creator.DisplayName,
			ContractURL: payload.DocumentPath,
		},
	}
	return c.deliver(ctx, msg, nil, &payload.DealID, logCtx)
}

func (c *Consumer) deliver(ctx context.Context, msg Message, requestID, dealID *uuid.UUID, logCtx context.Context) error {
	metadata := map[string]any{
		"template":  string(msg.Template),
		"recipient": msg.To,
	}
	if err := c.notifier.Send(ctx, msg); err != nil {
		metadata["error"] = err.Error()
		c.recorder.Record(ctx, nil, audit.Entry{
			RequestID: requestID,
			DealID:    dealID,
			Event:     enums.DealEventNotificationFailed,
			Metadata:  metadata,
		})
		return err
	}
	c.recorder.Record(ctx, nil, audit.Entry{
		RequestID: requestID,
		DealID:    dealID,
		Event:     enums.DealEventNotificationSent,
		Metadata:  metadata,
	})
	c.logg.Info(logCtx, "notification delivered")
	return nil
}
