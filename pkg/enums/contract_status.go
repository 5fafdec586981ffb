package enums

import "fmt"

// ContractStatus tracks the generated-document lifecycle for an accepted deal.
type ContractStatus string

const (
	ContractStatusRequested ContractStatus = "requested"
	ContractStatusGenerated ContractStatus = "generated"
	ContractStatusFailed    ContractStatus = "failed"
)

var validContractStatuses = []ContractStatus{
	ContractStatusRequested,
	ContractStatusGenerated,
	ContractStatusFailed,
}

// IsValid reports whether the value is a known ContractStatus.
func (s ContractStatus) IsValid() bool {
	for _, candidate := range validContractStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseContractStatus converts raw input into a ContractStatus.
func ParseContractStatus(value string) (ContractStatus, error) {
	for _, candidate := range validContractStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract status %q", value)
}
