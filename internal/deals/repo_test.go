package deals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

func setupDealsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS brand_deals (
  id TEXT PRIMARY KEY,
  creator_id TEXT NOT NULL,
  request_id TEXT NOT NULL UNIQUE,
  brand_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'drafting',
  deal_type TEXT NOT NULL,
  deal_amount TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  deadline DATETIME,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS collab_requests (
  id TEXT PRIMARY KEY,
  creator_id TEXT NOT NULL,
  brand_name TEXT NOT NULL,
  brand_email TEXT NOT NULL,
  brand_phone TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  deal_id TEXT,
  supersedes_id TEXT,
  deal_type TEXT NOT NULL,
  deal_amount TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  deliverables TEXT NOT NULL,
  deadline DATETIME,
  message TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		_ = db.Exec("DROP TABLE IF EXISTS brand_deals").Error
		_ = db.Exec("DROP TABLE IF EXISTS collab_requests").Error
	})
	return db
}

func insertDeal(t *testing.T, db *gorm.DB, mutate func(*models.BrandDeal)) *models.BrandDeal {
	t.Helper()
	deal := &models.BrandDeal{
		ID:         uuid.New(),
		CreatorID:  uuid.New(),
		RequestID:  uuid.New(),
		BrandName:  "Acme",
		Status:     enums.BrandDealStatusDrafting,
		DealType:   enums.DealTypeSponsoredPost,
		DealAmount: decimal.NewFromInt(1500),
		Currency:   "USD",
		CreatedAt:  time.Now().UTC(),
	}
	if mutate != nil {
		mutate(deal)
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func insertRequestRow(t *testing.T, db *gorm.DB, id uuid.UUID, status enums.CollabRequestStatus) {
	t.Helper()
	request := &models.CollabRequest{
		ID:           id,
		CreatorID:    uuid.New(),
		BrandName:    "Acme",
		BrandEmail:   "partnerships@acme.test",
		Status:       status,
		DealType:     enums.DealTypeSponsoredPost,
		DealAmount:   decimal.NewFromInt(1500),
		Currency:     "USD",
		Deliverables: "2 posts",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(request).Error)
}

func TestDealsRepositoryCreateAndFind(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	deal := insertDeal(t, db, nil)

	found, err := repo.FindByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.BrandName, found.BrandName)
	assert.Equal(t, enums.BrandDealStatusDrafting, found.Status)

	byRequest, err := repo.FindByRequestID(ctx, deal.RequestID)
	require.NoError(t, err)
	assert.Equal(t, deal.ID, byRequest.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDealsRepositoryRequestIDUnique(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	deal := insertDeal(t, db, nil)

	_, err := repo.Create(ctx, &models.BrandDeal{
		ID:         uuid.New(),
		CreatorID:  deal.CreatorID,
		RequestID:  deal.RequestID,
		BrandName:  "Acme",
		Status:     enums.BrandDealStatusDrafting,
		DealType:   enums.DealTypeSponsoredPost,
		DealAmount: decimal.NewFromInt(1500),
		Currency:   "USD",
	})
	require.Error(t, err)
}

func TestDealsRepositoryGuardedUpdate(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	deal := insertDeal(t, db, nil)

	flipped, err := repo.UpdateStatusGuarded(ctx, deal.ID, enums.BrandDealStatusDrafting, map[string]any{
		"status": enums.BrandDealStatusActive,
	})
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.UpdateStatusGuarded(ctx, deal.ID, enums.BrandDealStatusDrafting, map[string]any{
		"status": enums.BrandDealStatusDisputed,
	})
	require.NoError(t, err)
	assert.False(t, flipped)

	found, err := repo.FindByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BrandDealStatusActive, found.Status)
}

func TestDealsRepositoryFindOrphansBefore(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-time.Hour)

	// Drafting deal whose request never reached accepted.
	orphan := insertDeal(t, db, func(d *models.BrandDeal) {
		d.CreatedAt = cutoff.Add(-time.Hour)
	})
	insertRequestRow(t, db, orphan.RequestID, enums.CollabRequestStatusDeclined)

	// Healthy accepted pairing is left alone.
	healthy := insertDeal(t, db, func(d *models.BrandDeal) {
		d.Status = enums.BrandDealStatusActive
		d.CreatedAt = cutoff.Add(-time.Hour)
	})
	insertRequestRow(t, db, healthy.RequestID, enums.CollabRequestStatusAccepted)

	// Too recent to reconcile yet.
	recent := insertDeal(t, db, func(d *models.BrandDeal) {
		d.CreatedAt = time.Now().UTC()
	})
	insertRequestRow(t, db, recent.RequestID, enums.CollabRequestStatusPending)

	rows, err := repo.FindOrphansBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, orphan.ID, rows[0].ID)

	require.NoError(t, repo.Delete(ctx, orphan.ID))
	_, err = repo.FindByID(ctx, orphan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDealsRepositoryListPaginates(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		offset := time.Duration(i) * time.Minute
		insertDeal(t, db, func(d *models.BrandDeal) {
			d.CreatorID = creatorID
			d.CreatedAt = base.Add(offset)
		})
	}
	insertDeal(t, db, nil) // another creator

	list, err := repo.List(ctx, creatorID, pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list.Deals, 2)
	require.NotEmpty(t, list.NextCursor)

	next, err := repo.List(ctx, creatorID, pagination.Params{Limit: 2, Cursor: list.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, next.Deals, 1)
	assert.Empty(t, next.NextCursor)

	active := enums.BrandDealStatusActive
	filtered, err := repo.List(ctx, creatorID, pagination.Params{}, ListFilters{Status: &active})
	require.NoError(t, err)
	assert.Empty(t, filtered.Deals)
}
