package enums

import "fmt"

// CollabAction is the set of actions a brand can take against a pending
// collaboration request.
type CollabAction string

const (
	CollabActionAccept  CollabAction = "accept"
	CollabActionDecline CollabAction = "decline"
	CollabActionCounter CollabAction = "counter"
)

var validCollabActions = []CollabAction{
	CollabActionAccept,
	CollabActionDecline,
	CollabActionCounter,
}

// TokenActions are the actions allowed to appear inside a signed action link.
// Counters carry new terms and arrive through the submission form instead.
var TokenActions = []CollabAction{
	CollabActionAccept,
	CollabActionDecline,
}

// String implements fmt.Stringer.
func (a CollabAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known CollabAction.
func (a CollabAction) IsValid() bool {
	for _, candidate := range validCollabActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTokenAction reports whether the action may be embedded in an action link.
func (a CollabAction) IsTokenAction() bool {
	for _, candidate := range TokenActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// TargetStatus returns the request status this action resolves to.
func (a CollabAction) TargetStatus() (CollabRequestStatus, error) {
	switch a {
	case CollabActionAccept:
		return CollabRequestStatusAccepted, nil
	case CollabActionDecline:
		return CollabRequestStatusDeclined, nil
	case CollabActionCounter:
		return CollabRequestStatusCountered, nil
	}
	return "", fmt.Errorf("invalid collab action %q", a)
}

// ParseCollabAction converts raw input into a CollabAction.
func ParseCollabAction(value string) (CollabAction, error) {
	for _, candidate := range validCollabActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collab action %q", value)
}
