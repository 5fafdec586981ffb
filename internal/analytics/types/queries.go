package types

import "time"

// FunnelQueryRequest carries the input parameters for deal funnel queries.
type FunnelQueryRequest struct {
	CreatorID string
	Start     time.Time
	End       time.Time
}

// TimeSeriesPoint describes a single date/value pair returned by the query service.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// LabelValue represents a top-N entry such as deal type or brand.
type LabelValue struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// FunnelQueryResponse wraps the proposal-to-deal funnel KPIs.
type FunnelQueryResponse struct {
	ProposalsSeries    []TimeSeriesPoint `json:"proposals"`
	Proposed           int64             `json:"proposed"`
	Accepted           int64             `json:"accepted"`
	Declined           int64             `json:"declined"`
	Countered          int64             `json:"countered"`
	Expired            int64             `json:"expired"`
	AcceptanceRate     float64           `json:"acceptance_rate"`
	AcceptedByType     []LabelValue      `json:"accepted_by_type"`
	AcceptedValueCents int64             `json:"accepted_value_cents"`
}
