package enums

import "fmt"

// DealEvent names the entries recorded in the append-only action log.
type DealEvent string

const (
	DealEventRequestCreated     DealEvent = "request_created"
	DealEventRequestAccepted    DealEvent = "request_accepted"
	DealEventRequestDeclined    DealEvent = "request_declined"
	DealEventRequestCountered   DealEvent = "request_countered"
	DealEventRequestExpired     DealEvent = "request_expired"
	DealEventDealCreated        DealEvent = "deal_created"
	DealEventDealStatusChanged  DealEvent = "deal_status_changed"
	DealEventDealReconciled     DealEvent = "deal_reconciled"
	DealEventNotificationSent   DealEvent = "notification_sent"
	DealEventNotificationFailed DealEvent = "notification_failed"
	DealEventContractGenerated  DealEvent = "contract_generated"
	DealEventContractFailed     DealEvent = "contract_failed"
	DealEventAttachmentScanned  DealEvent = "attachment_scanned"
)

var validDealEvents = []DealEvent{
	DealEventRequestCreated,
	DealEventRequestAccepted,
	DealEventRequestDeclined,
	DealEventRequestCountered,
	DealEventRequestExpired,
	DealEventDealCreated,
	DealEventDealStatusChanged,
	DealEventDealReconciled,
	DealEventNotificationSent,
	DealEventNotificationFailed,
	DealEventContractGenerated,
	DealEventContractFailed,
	DealEventAttachmentScanned,
}

// String implements fmt.Stringer.
func (e DealEvent) String() string {
	return string(e)
}

// IsValid reports whether the value is a known DealEvent.
func (e DealEvent) IsValid() bool {
	for _, candidate := range validDealEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseDealEvent converts raw input into a DealEvent.
func ParseDealEvent(value string) (DealEvent, error) {
	for _, candidate := range validDealEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal event %q", value)
}
