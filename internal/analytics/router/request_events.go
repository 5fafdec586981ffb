package router

import (
	"context"
	"fmt"

	"github.com/creatorlane/creatorlane-backend/internal/analytics"
	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

type requestCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newRequestCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &requestCreatedHandler{writer: writer, logg: logg}
}

func (h *requestCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CollabRequestCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for collab_request_created")
	}

	row := types.DealActionEventRow{
		EventID:     envelope.EventID,
		EventType:   string(envelope.EventType),
		OccurredAt:  envelope.OccurredAt,
		CreatorID:   event.CreatorID.String(),
		RequestID:   stringPtr(event.RequestID.String()),
		DealType:    stringPtr(string(event.DealType)),
		AmountCents: amountCentsPtr(event.DealAmount),
		Currency:    stringPtr(event.Currency),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type requestAcceptedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newRequestAcceptedHandler(writer Writer, logg *logger.Logger) Handler {
	return &requestAcceptedHandler{writer: writer, logg: logg}
}

func (h *requestAcceptedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CollabRequestAcceptedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for collab_request_accepted")
	}

	row := types.DealActionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: analytics.ActionTimestamp(&event.AcceptedAt, envelope.OccurredAt),
		CreatorID:  event.CreatorID.String(),
		RequestID:  stringPtr(event.RequestID.String()),
		DealID:     stringPtr(event.DealID.String()),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type requestDeclinedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newRequestDeclinedHandler(writer Writer, logg *logger.Logger) Handler {
	return &requestDeclinedHandler{writer: writer, logg: logg}
}

func (h *requestDeclinedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CollabRequestDeclinedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for collab_request_declined")
	}

	row := types.DealActionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: analytics.ActionTimestamp(&event.DeclinedAt, envelope.OccurredAt),
		CreatorID:  event.CreatorID.String(),
		RequestID:  stringPtr(event.RequestID.String()),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type requestCounteredHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newRequestCounteredHandler(writer Writer, logg *logger.Logger) Handler {
	return &requestCounteredHandler{writer: writer, logg: logg}
}

// The countered row is keyed on the parent request; the superseding child
// request id travels in the payload column.
func (h *requestCounteredHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CollabRequestCounteredEvent)
	if !ok {
		return fmt.Errorf("invalid payload for collab_request_countered")
	}

	row := types.DealActionEventRow{
		EventID:     envelope.EventID,
		EventType:   string(envelope.EventType),
		OccurredAt:  envelope.OccurredAt,
		CreatorID:   event.CreatorID.String(),
		RequestID:   stringPtr(event.RequestID.String()),
		AmountCents: amountCentsPtr(event.DealAmount),
		Currency:    stringPtr(event.Currency),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type requestExpiredHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newRequestExpiredHandler(writer Writer, logg *logger.Logger) Handler {
	return &requestExpiredHandler{writer: writer, logg: logg}
}

func (h *requestExpiredHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CollabRequestExpiredEvent)
	if !ok {
		return fmt.Errorf("invalid payload for collab_request_expired")
	}

	row := types.DealActionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: analytics.ActionTimestamp(&event.ExpiredAt, envelope.OccurredAt),
		CreatorID:  event.CreatorID.String(),
		RequestID:  stringPtr(event.RequestID.String()),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

func insertActionRow(ctx context.Context, writer Writer, logg *logger.Logger, envelope types.Envelope, row types.DealActionEventRow) error {
	logCtx := logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"event_id":   envelope.EventID,
	})

	row, err := attachPayload(row, envelope)
	if err != nil {
		logg.Error(logCtx, "failed to encode action row payload", err)
		return err
	}

	if err := writer.InsertActionEvent(logCtx, row); err != nil {
		logg.Error(logCtx, "failed to insert action row", err)
		return err
	}

	logg.Info(logCtx, "action row inserted")
	return nil
}
