package enums

import "fmt"

// BrandDealStatus tracks the lifecycle of a brand deal after acceptance.
type BrandDealStatus string

const (
	BrandDealStatusDrafting          BrandDealStatus = "drafting"
	BrandDealStatusAwaitingSignature BrandDealStatus = "awaiting_signature"
	BrandDealStatusActive            BrandDealStatus = "active"
	BrandDealStatusCompleted         BrandDealStatus = "completed"
	BrandDealStatusDisputed          BrandDealStatus = "disputed"
)

var validBrandDealStatuses = []BrandDealStatus{
	BrandDealStatusDrafting,
	BrandDealStatusAwaitingSignature,
	BrandDealStatusActive,
	BrandDealStatusCompleted,
	BrandDealStatusDisputed,
}

// brandDealTransitions enumerates the creator-driven deal moves.
var brandDealTransitions = map[BrandDealStatus][]BrandDealStatus{
	BrandDealStatusDrafting:          {BrandDealStatusAwaitingSignature},
	BrandDealStatusAwaitingSignature: {BrandDealStatusActive},
	BrandDealStatusActive:            {BrandDealStatusCompleted, BrandDealStatusDisputed},
	BrandDealStatusDisputed:          {BrandDealStatusActive, BrandDealStatusCompleted},
}

// String implements fmt.Stringer.
func (s BrandDealStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BrandDealStatus.
func (s BrandDealStatus) IsValid() bool {
	for _, candidate := range validBrandDealStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the deal may move from s to target.
func (s BrandDealStatus) CanTransitionTo(target BrandDealStatus) bool {
	for _, candidate := range brandDealTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseBrandDealStatus converts raw input into a BrandDealStatus.
func ParseBrandDealStatus(value string) (BrandDealStatus, error) {
	for _, candidate := range validBrandDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid brand deal status %q", value)
}
