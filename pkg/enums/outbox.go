package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCollabRequest OutboxAggregateType = "collab_request"
	AggregateBrandDeal     OutboxAggregateType = "brand_deal"
	AggregateContract      OutboxAggregateType = "contract"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCollabRequest,
	AggregateBrandDeal,
	AggregateContract,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventCollabRequestCreated   OutboxEventType = "collab_request_created"
	EventCollabRequestAccepted  OutboxEventType = "collab_request_accepted"
	EventCollabRequestDeclined  OutboxEventType = "collab_request_declined"
	EventCollabRequestCountered OutboxEventType = "collab_request_countered"
	EventCollabRequestExpired   OutboxEventType = "collab_request_expired"
	EventBrandDealCreated       OutboxEventType = "brand_deal_created"
	EventBrandDealStatusChanged OutboxEventType = "brand_deal_status_changed"
	EventContractRequested      OutboxEventType = "contract_requested"
	EventContractGenerated      OutboxEventType = "contract_generated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventCollabRequestCreated,
	EventCollabRequestAccepted,
	EventCollabRequestDeclined,
	EventCollabRequestCountered,
	EventCollabRequestExpired,
	EventBrandDealCreated,
	EventBrandDealStatusChanged,
	EventContractRequested,
	EventContractGenerated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
