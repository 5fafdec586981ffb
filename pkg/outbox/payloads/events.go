package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// CollabRequestCreatedEvent signals a freshly proposed collaboration.
type CollabRequestCreatedEvent struct {
	RequestID  uuid.UUID       `json:"request_id"`
	CreatorID  uuid.UUID       `json:"creator_id"`
	BrandName  string          `json:"brand_name"`
	BrandEmail string          `json:"brand_email"`
	DealType   enums.DealType  `json:"deal_type"`
	DealAmount decimal.Decimal `json:"deal_amount"`
	Currency   string          `json:"currency"`
}

// CollabRequestAcceptedEvent is emitted when a brand accepts via action link.
type CollabRequestAcceptedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	DealID     uuid.UUID `json:"deal_id"`
	BrandEmail string    `json:"brand_email"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// CollabRequestDeclinedEvent is emitted when a brand declines via action link.
type CollabRequestDeclinedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	BrandEmail string    `json:"brand_email"`
	DeclinedAt time.Time `json:"declined_at"`
}

// CollabRequestCounteredEvent carries the superseding request created for a counter-offer.
type CollabRequestCounteredEvent struct {
	RequestID    uuid.UUID       `json:"request_id"`
	NewRequestID uuid.UUID       `json:"new_request_id"`
	CreatorID    uuid.UUID       `json:"creator_id"`
	BrandEmail   string          `json:"brand_email"`
	DealAmount   decimal.Decimal `json:"deal_amount"`
	Currency     string          `json:"currency"`
}

// CollabRequestExpiredEvent describes requests lapsed by the expiry sweep.
type CollabRequestExpiredEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	BrandEmail string    `json:"brand_email"`
	ExpiredAt  time.Time `json:"expired_at"`
	TTLDays    *int      `json:"ttl_days,omitempty"`
}

// BrandDealCreatedEvent signals a new deal minted from an accepted request.
type BrandDealCreatedEvent struct {
	DealID     uuid.UUID             `json:"deal_id"`
	RequestID  uuid.UUID             `json:"request_id"`
	CreatorID  uuid.UUID             `json:"creator_id"`
	Status     enums.BrandDealStatus `json:"status"`
	DealAmount decimal.Decimal       `json:"deal_amount"`
	Currency   string                `json:"currency"`
}

// BrandDealStatusChangedEvent mirrors the payload emitted on deal transitions.
type BrandDealStatusChangedEvent struct {
	DealID    uuid.UUID             `json:"deal_id"`
	RequestID uuid.UUID             `json:"request_id"`
	CreatorID uuid.UUID             `json:"creator_id"`
	From      enums.BrandDealStatus `json:"from"`
	To        enums.BrandDealStatus `json:"to"`
}

// ContractRequestedEvent asks the contract worker to render a document.
type ContractRequestedEvent struct {
	ContractID uuid.UUID `json:"contract_id"`
	DealID     uuid.UUID `json:"deal_id"`
	RequestID  uuid.UUID `json:"request_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
}

// ContractGeneratedEvent reports a rendered contract and its storage path.
type ContractGeneratedEvent struct {
	ContractID   uuid.UUID `json:"contract_id"`
	DealID       uuid.UUID `json:"deal_id"`
	CreatorID    uuid.UUID `json:"creator_id"`
	DocumentPath string    `json:"document_path"`
	GeneratedAt  time.Time `json:"generated_at"`
}
