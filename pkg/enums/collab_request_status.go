package enums

import "fmt"

// CollabRequestStatus tracks the lifecycle of a collaboration request.
type CollabRequestStatus string

const (
	CollabRequestStatusPending   CollabRequestStatus = "pending"
	CollabRequestStatusAccepted  CollabRequestStatus = "accepted"
	CollabRequestStatusDeclined  CollabRequestStatus = "declined"
	CollabRequestStatusCountered CollabRequestStatus = "countered"
	CollabRequestStatusExpired   CollabRequestStatus = "expired"
)

var validCollabRequestStatuses = []CollabRequestStatus{
	CollabRequestStatusPending,
	CollabRequestStatusAccepted,
	CollabRequestStatusDeclined,
	CollabRequestStatusCountered,
	CollabRequestStatusExpired,
}

// String implements fmt.Stringer.
func (s CollabRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CollabRequestStatus.
func (s CollabRequestStatus) IsValid() bool {
	for _, candidate := range validCollabRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted. Only
// pending requests may still be actioned.
func (s CollabRequestStatus) IsTerminal() bool {
	return s != CollabRequestStatusPending && s.IsValid()
}

// ParseCollabRequestStatus converts raw input into a CollabRequestStatus.
func ParseCollabRequestStatus(value string) (CollabRequestStatus, error) {
	for _, candidate := range validCollabRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collab request status %q", value)
}
