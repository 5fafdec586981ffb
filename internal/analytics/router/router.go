package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

var ErrUnsupportedEventType = errors.New("unsupported analytics event type")

// Writer delivers BigQuery rows produced by analytics handlers.
type Writer interface {
	InsertActionEvent(ctx context.Context, row types.DealActionEventRow) error
}

// Handler receives an envelope plus a decoded event payload.
type Handler interface {
	Handle(ctx context.Context, envelope types.Envelope, payload any) error
}

type handlerEntry struct {
	factory func() any
	handler Handler
}

// Router dispatches analytics envelopes to the configured handler per event type.
type Router struct {
	handlers map[enums.OutboxEventType]handlerEntry
	logg     *logger.Logger
}

// NewRouter wires the default handlers and allows overrides for specific events.
func NewRouter(writer Writer, logg *logger.Logger, overrides map[enums.OutboxEventType]Handler) (*Router, error) {
	if writer == nil {
		return nil, errors.New("writer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	entries := map[enums.OutboxEventType]handlerEntry{
		enums.EventCollabRequestCreated: {
			factory: func() any { return &payloads.CollabRequestCreatedEvent{} },
			handler: newRequestCreatedHandler(writer, logg),
		},
		enums.EventCollabRequestAccepted: {
			factory: func() any { return &payloads.CollabRequestAcceptedEvent{} },
			handler: newRequestAcceptedHandler(writer, logg),
		},
		enums.EventCollabRequestDeclined: {
			factory: func() any { return &payloads.CollabRequestDeclinedEvent{} },
			handler: newRequestDeclinedHandler(writer, logg),
		},
		enums.EventCollabRequestCountered: {
			factory: func() any { return &payloads.CollabRequestCounteredEvent{} },
			handler: newRequestCounteredHandler(writer, logg),
		},
		enums.EventCollabRequestExpired: {
			factory: func() any { return &payloads.CollabRequestExpiredEvent{} },
			handler: newRequestExpiredHandler(writer, logg),
		},
		enums.EventBrandDealCreated: {
			factory: func() any { return &payloads.BrandDealCreatedEvent{} },
			handler: newDealCreatedHandler(writer, logg),
		},
		enums.EventBrandDealStatusChanged: {
			factory: func() any { return &payloads.BrandDealStatusChangedEvent{} },
			handler: newDealStatusChangedHandler(writer, logg),
		},
		enums.EventContractGenerated: {
			factory: func() any { return &payloads.ContractGeneratedEvent{} },
			handler: newContractGeneratedHandler(writer, logg),
		},
	}

	for event, custom := range overrides {
		entry, ok := entries[event]
		if !ok || custom == nil {
			continue
		}
		entry.handler = custom
		entries[event] = entry
	}

	return &Router{
		handlers: entries,
		logg:     logg,
	}, nil
}

// Handle dispatches the incoming envelope to the configured handler.
func (r *Router) Handle(ctx context.Context, envelope types.Envelope) error {
	entry, ok := r.handlers[envelope.EventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedEventType, envelope.EventType)
	}
	payload := entry.factory()
	if len(envelope.Payload) == 0 {
		return fmt.Errorf("empty payload for %s", envelope.EventType)
	}
	if err := json.Unmarshal(envelope.Payload, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
	}

	return entry.handler.Handle(ctx, envelope, payload)
}
