package analytics

import (
	"context"
	"fmt"

	"github.com/creatorlane/creatorlane-backend/internal/analytics/query"
	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/pkg/bigquery"
)

// Service provides funnel reports based on deal action events.
type Service interface {
	// Query returns the proposal-to-deal funnel for the provided request.
	Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error)
}

type service struct {
	funnel query.FunnelService
}

// NewService builds an analytics service backed by BigQuery.
func NewService(client *bigquery.Client, project, dataset, table string) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}

	funnel, err := query.NewFunnelService(client, project, dataset, table)
	if err != nil {
		return nil, err
	}

	return &service{funnel: funnel}, nil
}

func (s *service) Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error) {
	return s.funnel.Query(ctx, req)
}
