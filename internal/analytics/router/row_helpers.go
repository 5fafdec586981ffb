package router

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	analyticswriter "github.com/creatorlane/creatorlane-backend/internal/analytics/writer"
)

// stringPtr returns a trimmed pointer or nil when the input is empty.
func stringPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// amountCentsPtr converts a decimal deal amount to whole cents.
func amountCentsPtr(amount decimal.Decimal) *int64 {
	cents := amount.Shift(2).IntPart()
	return &cents
}

// attachPayload encodes the envelope payload into the row's JSON column.
func attachPayload(row types.DealActionEventRow, envelope types.Envelope) (types.DealActionEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(envelope.Payload)
	if err != nil {
		return row, err
	}
	row.Payload = payloadJSON
	return row, nil
}
