package enums

// ScanStatus is the verdict returned by the attachment scanner capability.
type ScanStatus string

const (
	ScanStatusClean    ScanStatus = "clean"
	ScanStatusInfected ScanStatus = "infected"
	ScanStatusError    ScanStatus = "error"
)

var validScanStatuses = []ScanStatus{
	ScanStatusClean,
	ScanStatusInfected,
	ScanStatusError,
}

// IsValid reports whether the value is a known ScanStatus.
func (s ScanStatus) IsValid() bool {
	for _, candidate := range validScanStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
