package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

type orphanDealReader interface {
	FindOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.BrandDeal, error)
}

type orphanDealRepo interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type orphanRepoFactory func(tx *gorm.DB) orphanDealRepo

func defaultOrphanRepo(tx *gorm.DB) orphanDealRepo {
	return deals.NewRepository(tx)
}

// OrphanDealJobParams configure the orphan deal sweep.
type OrphanDealJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Reader      orphanDealReader
	RepoFactory orphanRepoFactory
	Recorder    audit.Recorder
	OrphanAge   time.Duration
}

// NewOrphanDealJob builds the cron job that removes deals whose request
// transition never committed. Acceptance creates the deal before the request
// flips, so a crash between the two leaves a deal with no accepted request.
func NewOrphanDealJob(params OrphanDealJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("orphan deal reader required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if params.OrphanAge <= 0 {
		return nil, fmt.Errorf("orphan age must be positive")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = defaultOrphanRepo
	}
	return &orphanDealJob{
		logg:        params.Logger,
		db:          params.DB,
		reader:      params.Reader,
		repoFactory: repoFactory,
		recorder:    params.Recorder,
		orphanAge:   params.OrphanAge,
		now:         time.Now,
	}, nil
}

type orphanDealJob struct {
	logg        *logger.Logger
	db          txRunner
	reader      orphanDealReader
	repoFactory orphanRepoFactory
	recorder    audit.Recorder
	orphanAge   time.Duration
	now         func() time.Time
}

func (j *orphanDealJob) Name() string { return "orphan-deal-reconcile" }

func (j *orphanDealJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.orphanAge)
	orphans, err := j.reader.FindOrphansBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query orphan deals: %w", err)
	}

	removed := 0
	var errs error
	for _, deal := range orphans {
		deal := deal
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			if err := j.repoFactory(tx).Delete(ctx, deal.ID); err != nil {
				return err
			}
			j.recorder.Record(ctx, tx, audit.Entry{
				RequestID: &deal.RequestID,
				DealID:    &deal.ID,
				Event:     enums.DealEventDealReconciled,
				Metadata: map[string]any{
					"reason":     "request transition never committed",
					"deal_age":   j.now().UTC().Sub(deal.CreatedAt).String(),
					"brand_name": deal.BrandName,
				},
			})
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reconcile deal %s: %w", deal.ID, err))
			continue
		}
		removed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": removed})
	j.logg.Info(logCtx, "orphan deal sweep complete")
	return errs
}
