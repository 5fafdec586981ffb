package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// DealActionEventRow mirrors the deal_action_events BigQuery schema. One row
// per lifecycle event; funnel reports aggregate over event_type.
type DealActionEventRow struct {
	EventID     string             `bigquery:"event_id"`
	EventType   string             `bigquery:"event_type"`
	OccurredAt  time.Time          `bigquery:"occurred_at"`
	CreatorID   string             `bigquery:"creator_id"`
	RequestID   *string            `bigquery:"request_id"`
	DealID      *string            `bigquery:"deal_id"`
	ContractID  *string            `bigquery:"contract_id"`
	DealType    *string            `bigquery:"deal_type"`
	DealStatus  *string            `bigquery:"deal_status"`
	AmountCents *int64             `bigquery:"amount_cents"`
	Currency    *string            `bigquery:"currency"`
	Payload     cbigquery.NullJSON `bigquery:"payload"`
}
