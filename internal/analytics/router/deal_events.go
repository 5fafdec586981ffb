package router

import (
	"context"
	"fmt"

	"github.com/creatorlane/creatorlane-backend/internal/analytics"
	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

type dealCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newDealCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &dealCreatedHandler{writer: writer, logg: logg}
}

func (h *dealCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.BrandDealCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for brand_deal_created")
	}

	row := types.DealActionEventRow{
		EventID:     envelope.EventID,
		EventType:   string(envelope.EventType),
		OccurredAt:  envelope.OccurredAt,
		CreatorID:   event.CreatorID.String(),
		RequestID:   stringPtr(event.RequestID.String()),
		DealID:      stringPtr(event.DealID.String()),
		DealStatus:  stringPtr(string(event.Status)),
		AmountCents: amountCentsPtr(event.DealAmount),
		Currency:    stringPtr(event.Currency),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type dealStatusChangedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newDealStatusChangedHandler(writer Writer, logg *logger.Logger) Handler {
	return &dealStatusChangedHandler{writer: writer, logg: logg}
}

func (h *dealStatusChangedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.BrandDealStatusChangedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for brand_deal_status_changed")
	}

	row := types.DealActionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: envelope.OccurredAt,
		CreatorID:  event.CreatorID.String(),
		RequestID:  stringPtr(event.RequestID.String()),
		DealID:     stringPtr(event.DealID.String()),
		DealStatus: stringPtr(string(event.To)),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}

type contractGeneratedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newContractGeneratedHandler(writer Writer, logg *logger.Logger) Handler {
	return &contractGeneratedHandler{writer: writer, logg: logg}
}

func (h *contractGeneratedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ContractGeneratedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for contract_generated")
	}

	row := types.DealActionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: analytics.ActionTimestamp(&event.GeneratedAt, envelope.OccurredAt),
		CreatorID:  event.CreatorID.String(),
		DealID:     stringPtr(event.DealID.String()),
		ContractID: stringPtr(event.ContractID.String()),
	}
	return insertActionRow(ctx, h.writer, h.logg, envelope, row)
}
