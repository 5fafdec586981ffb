package collabs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// CreateInput captures a creator's new collaboration proposal.
type CreateInput struct {
	CreatorID    uuid.UUID
	BrandName    string
	BrandEmail   string
	BrandPhone   *string
	DealType     enums.DealType
	DealAmount   decimal.Decimal
	Currency     string
	Deliverables string
	Deadline     *time.Time
	Message      *string
}

// CounterTerms are the replacement terms a brand proposes when countering.
type CounterTerms struct {
	DealAmount   decimal.Decimal
	Currency     string
	Deliverables string
	Deadline     *time.Time
	Message      *string
}

// ActionInput is a brand action resolved from a verified token.
type ActionInput struct {
	RequestID    uuid.UUID
	Action       enums.CollabAction
	CounterTerms *CounterTerms
}

// Outcome discriminates how an action landed.
type Outcome string

const (
	// OutcomeApplied means this call performed the transition.
	OutcomeApplied Outcome = "applied"
	// OutcomeAlreadyApplied means the same transition had already been
	// performed; repeat clicks and lost races on the same action land here.
	OutcomeAlreadyApplied Outcome = "already_applied"
	// OutcomeConflict means the request is terminal with a different outcome.
	OutcomeConflict Outcome = "conflict"
)

// ActionResult reports the applied action plus the resulting aggregates.
type ActionResult struct {
	Outcome      Outcome
	Status       enums.CollabRequestStatus
	DealID       *uuid.UUID
	NewRequestID *uuid.UUID
}

// ListFilters describe the inputs supported by the creator requests list.
type ListFilters struct {
	Status   *enums.CollabRequestStatus
	DealType *enums.DealType
	DateFrom *time.Time
	DateTo   *time.Time
}

// RequestSummary exposes the aggregated fields returned in the requests list.
type RequestSummary struct {
	ID         uuid.UUID                 `json:"id"`
	BrandName  string                    `json:"brand_name"`
	BrandEmail string                    `json:"brand_email"`
	Status     enums.CollabRequestStatus `json:"status"`
	DealType   enums.DealType            `json:"deal_type"`
	DealAmount decimal.Decimal           `json:"deal_amount"`
	Currency   string                    `json:"currency"`
	DealID     *uuid.UUID                `json:"deal_id,omitempty"`
	Deadline   *time.Time                `json:"deadline,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// RequestList wraps the paginated requests plus the next page cursor.
type RequestList struct {
	Requests   []RequestSummary `json:"requests"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// RequestDetail is the full request payload returned by the creator API.
type RequestDetail struct {
	ID           uuid.UUID                 `json:"id"`
	BrandName    string                    `json:"brand_name"`
	BrandEmail   string                    `json:"brand_email"`
	BrandPhone   *string                   `json:"brand_phone,omitempty"`
	Status       enums.CollabRequestStatus `json:"status"`
	DealID       *uuid.UUID                `json:"deal_id,omitempty"`
	SupersedesID *uuid.UUID                `json:"supersedes_id,omitempty"`
	DealType     enums.DealType            `json:"deal_type"`
	DealAmount   decimal.Decimal           `json:"deal_amount"`
	Currency     string                    `json:"currency"`
	Deliverables string                    `json:"deliverables"`
	Deadline     *time.Time                `json:"deadline,omitempty"`
	Message      *string                   `json:"message,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// RequestDetailFromModel maps a stored request onto the API payload.
func RequestDetailFromModel(m *models.CollabRequest) *RequestDetail {
	if m == nil {
		return nil
	}
	return &RequestDetail{
		ID:           m.ID,
		BrandName:    m.BrandName,
		BrandEmail:   m.BrandEmail,
		BrandPhone:   m.BrandPhone,
		Status:       m.Status,
		DealID:       m.DealID,
		SupersedesID: m.SupersedesID,
		DealType:     m.DealType,
		DealAmount:   m.DealAmount,
		Currency:     m.Currency,
		Deliverables: m.Deliverables,
		Deadline:     m.Deadline,
		Message:      m.Message,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
