package enums

import "fmt"

// DealType categorizes the proposed collaboration.
type DealType string

const (
	DealTypeSponsoredPost DealType = "sponsored_post"
	DealTypeUGC           DealType = "ugc"
	DealTypeAmbassador    DealType = "ambassador"
	DealTypeAffiliate     DealType = "affiliate"
	DealTypeEvent         DealType = "event"
)

var validDealTypes = []DealType{
	DealTypeSponsoredPost,
	DealTypeUGC,
	DealTypeAmbassador,
	DealTypeAffiliate,
	DealTypeEvent,
}

// String implements fmt.Stringer.
func (d DealType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealType.
func (d DealType) IsValid() bool {
	for _, candidate := range validDealTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDealType converts raw input into a DealType.
func ParseDealType(value string) (DealType, error) {
	for _, candidate := range validDealTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal type %q", value)
}
