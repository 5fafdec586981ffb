package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/api/middleware"
	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

type creatorCollabsStub struct {
	createInput *collabs.CreateInput
	listFilters *collabs.ListFilters
	listParams  *pagination.Params
	getErr      error
}

func (s *creatorCollabsStub) Create(ctx context.Context, input collabs.CreateInput) (*models.CollabRequest, error) {
	s.createInput = &input
	return &models.CollabRequest{
		ID:           uuid.New(),
		CreatorID:    input.CreatorID,
		BrandName:    input.BrandName,
		BrandEmail:   input.BrandEmail,
		Status:       enums.CollabRequestStatusPending,
		DealType:     input.DealType,
		DealAmount:   input.DealAmount,
		Currency:     input.Currency,
		Deliverables: input.Deliverables,
	}, nil
}

func (s *creatorCollabsStub) Get(ctx context.Context, creatorID, requestID uuid.UUID) (*models.CollabRequest, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.CollabRequest{ID: requestID, CreatorID: creatorID, Status: enums.CollabRequestStatusPending}, nil
}

func (s *creatorCollabsStub) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters collabs.ListFilters) (*collabs.RequestList, error) {
	s.listParams = &params
	s.listFilters = &filters
	return &collabs.RequestList{}, nil
}

func (s *creatorCollabsStub) ApplyAction(ctx context.Context, input collabs.ActionInput) (*collabs.ActionResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not under test")
}

func (s *creatorCollabsStub) ExpireStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	return 0, nil
}

type auditStub struct {
	requestRows []models.DealActionLog
	lastLimit   int
}

func (s *auditStub) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) {}

func (s *auditStub) ListForRequest(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	s.lastLimit = limit
	return s.requestRows, nil
}

func (s *auditStub) ListForDeal(ctx context.Context, dealID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return nil, nil
}

func withCreator(req *http.Request, creatorID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithCreatorID(req.Context(), creatorID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCollabCreatePersistsRequest(t *testing.T) {
	creatorID := uuid.New()
	svc := &creatorCollabsStub{}

	body := `{"brand_name":"Glow Cosmetics","brand_email":"partnerships@glow.example","deal_type":"sponsored_post","deal_amount":"1500","currency":"USD","deliverables":"1 reel"}`
	req := httptest.NewRequest(http.MethodPost, "/collabs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withCreator(req, creatorID)

	resp := httptest.NewRecorder()
	CollabCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput == nil {
		t.Fatal("expected create to be called")
	}
	if svc.createInput.CreatorID != creatorID {
		t.Fatalf("expected creator %s got %s", creatorID, svc.createInput.CreatorID)
	}
	if svc.createInput.BrandName != "Glow Cosmetics" {
		t.Fatalf("unexpected brand name %q", svc.createInput.BrandName)
	}
}

func TestCollabCreateRejectsUnknownDealType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/collabs", strings.NewReader(
		`{"brand_name":"Glow","brand_email":"a@b.example","deal_type":"barter","deal_amount":"10","deliverables":"x"}`,
	))
	req.Header.Set("Content-Type", "application/json")
	req = withCreator(req, uuid.New())

	resp := httptest.NewRecorder()
	CollabCreate(&creatorCollabsStub{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCollabCreateRequiresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/collabs", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	CollabCreate(&creatorCollabsStub{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCollabListForwardsFilters(t *testing.T) {
	svc := &creatorCollabsStub{}
	req := httptest.NewRequest(http.MethodGet, "/collabs?limit=10&status=pending&deal_type=sponsored_post&date_from=2026-01-01T00:00:00Z", nil)
	req = withCreator(req, uuid.New())

	resp := httptest.NewRecorder()
	CollabList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.listParams == nil || svc.listParams.Limit != 10 {
		t.Fatalf("expected limit 10 forwarded got %+v", svc.listParams)
	}
	if svc.listFilters == nil || svc.listFilters.Status == nil || *svc.listFilters.Status != enums.CollabRequestStatusPending {
		t.Fatalf("expected pending status filter got %+v", svc.listFilters)
	}
	if svc.listFilters.DealType == nil || *svc.listFilters.DealType != enums.DealTypeSponsoredPost {
		t.Fatalf("expected deal type filter got %+v", svc.listFilters)
	}
	if svc.listFilters.DateFrom == nil {
		t.Fatal("expected date_from filter")
	}
}

func TestCollabListRejectsBadStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/collabs?status=nonsense", nil)
	req = withCreator(req, uuid.New())

	resp := httptest.NewRecorder()
	CollabList(&creatorCollabsStub{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCollabDetailRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/collabs/not-a-uuid", nil)
	req = withCreator(req, uuid.New())
	req = withURLParam(req, "requestId", "not-a-uuid")

	resp := httptest.NewRecorder()
	CollabDetail(&creatorCollabsStub{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCollabAuditLogChecksOwnershipFirst(t *testing.T) {
	svc := &creatorCollabsStub{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "request not found")}
	recorder := &auditStub{}

	requestID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/collabs/"+requestID.String()+"/audit", nil)
	req = withCreator(req, uuid.New())
	req = withURLParam(req, "requestId", requestID.String())

	resp := httptest.NewRecorder()
	CollabAuditLog(svc, recorder, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if recorder.lastLimit != 0 {
		t.Fatal("expected audit log untouched when ownership check fails")
	}
}

func TestCollabAuditLogReturnsEntries(t *testing.T) {
	requestID := uuid.New()
	recorder := &auditStub{requestRows: []models.DealActionLog{
		{ID: uuid.New(), RequestID: &requestID, Event: enums.DealEventRequestCreated},
	}}

	req := httptest.NewRequest(http.MethodGet, "/collabs/"+requestID.String()+"/audit?limit=5", nil)
	req = withCreator(req, uuid.New())
	req = withURLParam(req, "requestId", requestID.String())

	resp := httptest.NewRecorder()
	CollabAuditLog(&creatorCollabsStub{}, recorder, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if recorder.lastLimit != 5 {
		t.Fatalf("expected limit 5 forwarded got %d", recorder.lastLimit)
	}
	if !strings.Contains(resp.Body.String(), string(enums.DealEventRequestCreated)) {
		t.Fatalf("expected event in body: %s", resp.Body.String())
	}
}
