package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/pkg/bigquery"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
)

const (
	proposalSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(*) AS value
FROM %s
WHERE creator_id = @creatorID
  AND event_type = 'collab_request_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	funnelCountsSQL = `
SELECT
  COUNTIF(event_type = 'collab_request_created') AS proposed,
  COUNTIF(event_type = 'collab_request_accepted') AS accepted,
  COUNTIF(event_type = 'collab_request_declined') AS declined,
  COUNTIF(event_type = 'collab_request_countered') AS countered,
  COUNTIF(event_type = 'collab_request_expired') AS expired
FROM %s
WHERE creator_id = @creatorID
  AND occurred_at BETWEEN @start AND @end
`

	acceptedByTypeSQL = `
SELECT c.deal_type AS label, COUNT(*) AS value
FROM %s a
JOIN %s c
  ON c.request_id = a.request_id
  AND c.event_type = 'collab_request_created'
WHERE a.creator_id = @creatorID
  AND a.event_type = 'collab_request_accepted'
  AND a.occurred_at BETWEEN @start AND @end
  AND c.deal_type IS NOT NULL
GROUP BY label
ORDER BY value DESC
LIMIT 5
`

	acceptedValueSQL = `
SELECT SUM(COALESCE(amount_cents, 0)) AS value
FROM %s
WHERE creator_id = @creatorID
  AND event_type = 'brand_deal_created'
  AND occurred_at BETWEEN @start AND @end
`
)

// FunnelService provides proposal-to-deal funnel data from BigQuery
// deal_action_events.
type FunnelService interface {
	Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error)
}

type funnelService struct {
	client   *bigquery.Client
	tableRef string
}

// NewFunnelService builds a service backed by BigQuery.
func NewFunnelService(client *bigquery.Client, project, dataset, table string) (FunnelService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("project, dataset, and table are required")
	}
	return &funnelService{
		client:   client,
		tableRef: fmt.Sprintf("`%s.%s.%s`", project, dataset, table),
	}, nil
}

func (s *funnelService) Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	params := s.baseParams(req)

	proposals, err := s.querySeries(ctx, fmt.Sprintf(proposalSeriesSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	counts, err := s.queryFunnelCounts(ctx, fmt.Sprintf(funnelCountsSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	acceptedByType, err := s.queryTopLabels(ctx, fmt.Sprintf(acceptedByTypeSQL, s.tableRef, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	acceptedValue, err := s.queryAcceptedValue(ctx, fmt.Sprintf(acceptedValueSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	response := &types.FunnelQueryResponse{
		ProposalsSeries:    proposals,
		Proposed:           counts.Proposed,
		Accepted:           counts.Accepted,
		Declined:           counts.Declined,
		Countered:          counts.Countered,
		Expired:            counts.Expired,
		AcceptedByType:     acceptedByType,
		AcceptedValueCents: acceptedValue,
	}
	if counts.Proposed > 0 {
		response.AcceptanceRate = float64(counts.Accepted) / float64(counts.Proposed)
	}
	return response, nil
}

func validateRequest(req types.FunnelQueryRequest) error {
	if req.CreatorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "creator id required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End.Before(req.Start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}
	return nil
}

func (s *funnelService) baseParams(req types.FunnelQueryRequest) []cloudbigquery.QueryParameter {
	return []cloudbigquery.QueryParameter{
		{Name: "creatorID", Value: req.CreatorID},
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}
}

func (s *funnelService) querySeries(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.TimeSeriesPoint, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}

	var points []types.TimeSeriesPoint
	for {
		var row struct {
			Day   string `bigquery:"day"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading series row: %w", err)
		}
		points = append(points, types.TimeSeriesPoint{Date: row.Day, Value: row.Value})
	}
	return points, nil
}

type funnelCounts struct {
	Proposed  int64 `bigquery:"proposed"`
	Accepted  int64 `bigquery:"accepted"`
	Declined  int64 `bigquery:"declined"`
	Countered int64 `bigquery:"countered"`
	Expired   int64 `bigquery:"expired"`
}

func (s *funnelService) queryFunnelCounts(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (funnelCounts, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return funnelCounts{}, fmt.Errorf("query funnel counts: %w", err)
	}
	var row funnelCounts
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return funnelCounts{}, nil
		}
		return funnelCounts{}, fmt.Errorf("reading funnel counts row: %w", err)
	}
	return row, nil
}

func (s *funnelService) queryTopLabels(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.LabelValue, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query top labels: %w", err)
	}

	var result []types.LabelValue
	for {
		var row struct {
			Label string `bigquery:"label"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading top label row: %w", err)
		}
		result = append(result, types.LabelValue{Label: row.Label, Value: row.Value})
	}
	return result, nil
}

func (s *funnelService) queryAcceptedValue(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("query accepted value: %w", err)
	}
	var row struct {
		Value cloudbigquery.NullInt64 `bigquery:"value"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, nil
		}
		return 0, fmt.Errorf("reading accepted value row: %w", err)
	}
	if !row.Value.Valid {
		return 0, nil
	}
	return row.Value.Int64, nil
}
