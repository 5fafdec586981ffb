package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

const expiryBatchLimit = 500

type staleRequestExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// RequestExpiryJobParams configure the pending request sweep.
type RequestExpiryJobParams struct {
	Logger     *logger.Logger
	Collabs    staleRequestExpirer
	RequestTTL time.Duration
	BatchLimit int
}

// NewRequestExpiryJob builds the cron job that lapses pending collaboration
// requests older than their TTL.
func NewRequestExpiryJob(params RequestExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Collabs == nil {
		return nil, fmt.Errorf("collabs service required")
	}
	if params.RequestTTL <= 0 {
		return nil, fmt.Errorf("request ttl must be positive")
	}
	limit := params.BatchLimit
	if limit <= 0 {
		limit = expiryBatchLimit
	}
	return &requestExpiryJob{
		logg:       params.Logger,
		collabs:    params.Collabs,
		requestTTL: params.RequestTTL,
		batchLimit: limit,
		now:        time.Now,
	}, nil
}

type requestExpiryJob struct {
	logg       *logger.Logger
	collabs    staleRequestExpirer
	requestTTL time.Duration
	batchLimit int
	now        func() time.Time
}

func (j *requestExpiryJob) Name() string { return "request-expiry" }

func (j *requestExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.requestTTL)
	expired, err := j.collabs.ExpireStale(ctx, cutoff, j.batchLimit)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": expired})
	if err != nil {
		return fmt.Errorf("expire stale requests: %w", err)
	}
	j.logg.Info(logCtx, "request expiry sweep complete")
	return nil
}
