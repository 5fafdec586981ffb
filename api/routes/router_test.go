package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	analyticstypes "github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	"github.com/creatorlane/creatorlane-backend/internal/attachments"
	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/auth"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	pkgAuth "github.com/creatorlane/creatorlane-backend/pkg/auth"
	"github.com/creatorlane/creatorlane-backend/pkg/auth/session"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubCollabsService struct {
	applyFn func(ctx context.Context, input collabs.ActionInput) (*collabs.ActionResult, error)
}

func (s stubCollabsService) Create(ctx context.Context, input collabs.CreateInput) (*models.CollabRequest, error) {
	return &models.CollabRequest{ID: uuid.New(), CreatorID: input.CreatorID}, nil
}

func (s stubCollabsService) Get(ctx context.Context, creatorID, requestID uuid.UUID) (*models.CollabRequest, error) {
	return &models.CollabRequest{ID: requestID, CreatorID: creatorID}, nil
}

func (s stubCollabsService) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters collabs.ListFilters) (*collabs.RequestList, error) {
	return &collabs.RequestList{}, nil
}

func (s stubCollabsService) ApplyAction(ctx context.Context, input collabs.ActionInput) (*collabs.ActionResult, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, input)
	}
	return &collabs.ActionResult{Outcome: collabs.OutcomeApplied, Status: enums.CollabRequestStatusAccepted}, nil
}

func (s stubCollabsService) ExpireStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	return 0, nil
}

type stubDealsService struct{}

func (stubDealsService) Get(ctx context.Context, creatorID, dealID uuid.UUID) (*models.BrandDeal, error) {
	return &models.BrandDeal{ID: dealID, CreatorID: creatorID}, nil
}

func (stubDealsService) List(ctx context.Context, creatorID uuid.UUID, params pagination.Params, filters deals.ListFilters) (*deals.DealList, error) {
	return &deals.DealList{}, nil
}

func (stubDealsService) Transition(ctx context.Context, input deals.TransitionInput) error {
	return nil
}

type stubAttachmentsService struct{}

func (stubAttachmentsService) PresignUpload(ctx context.Context, creatorID uuid.UUID, input attachments.PresignInput) (*attachments.PresignOutput, error) {
	return &attachments.PresignOutput{}, nil
}

func (stubAttachmentsService) FinalizeScan(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error) {
	return &models.Attachment{ID: attachmentID}, nil
}

func (stubAttachmentsService) DownloadURL(ctx context.Context, creatorID, attachmentID uuid.UUID) (string, error) {
	return "https://example.com/signed", nil
}

func (stubAttachmentsService) ListForDeal(ctx context.Context, creatorID, dealID uuid.UUID) ([]models.Attachment, error) {
	return nil, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Query(ctx context.Context, req analyticstypes.FunnelQueryRequest) (*analyticstypes.FunnelQueryResponse, error) {
	return &analyticstypes.FunnelQueryResponse{}, nil
}

type stubAuditRecorder struct{}

func (stubAuditRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) {}

func (stubAuditRecorder) ListForRequest(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return nil, nil
}

func (stubAuditRecorder) ListForDeal(ctx context.Context, dealID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
			RefreshTTLHours:   2,
		},
		ActionLink: config.ActionLinkConfig{
			Secret:  "link-secret",
			TTL:     168 * time.Hour,
			BaseURL: "https://deals.example.com",
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, svc collabs.Service) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	codec, err := actiontoken.NewCodec(cfg.ActionLink)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		SessionManager:  stubSessionManager{},
		TokenCodec:      codec,
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		Collabs:         svc,
		Deals:           stubDealsService{},
		Attachments:     stubAttachmentsService{},
		Analytics:       stubAnalyticsService{},
		Audit:           stubAuditRecorder{},
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		CreatorID: uuid.New(),
		Handle:    "river.creates",
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig(), stubCollabsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, stubCollabsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestPublicPingNeedsNoCredentials(t *testing.T) {
	router := newTestRouter(t, testConfig(), stubCollabsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}

func TestCollabActionRejectsMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig(), stubCollabsService{})
	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/collabs/action", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without action token got %d", resp.Code)
	}
}

func TestCollabActionAppliesValidToken(t *testing.T) {
	cfg := testConfig()
	requestID := uuid.New()

	var applied collabs.ActionInput
	svc := stubCollabsService{
		applyFn: func(ctx context.Context, input collabs.ActionInput) (*collabs.ActionResult, error) {
			applied = input
			return &collabs.ActionResult{Outcome: collabs.OutcomeApplied, Status: enums.CollabRequestStatusAccepted}, nil
		},
	}
	router := newTestRouter(t, cfg, svc)

	codec, err := actiontoken.NewCodec(cfg.ActionLink)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	token, err := codec.Mint(requestID.String(), enums.CollabActionAccept, time.Hour)
	if err != nil {
		t.Fatalf("mint link token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/collabs/action?token="+token, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token got %d: %s", resp.Code, resp.Body.String())
	}
	if applied.RequestID != requestID {
		t.Fatalf("expected request %s applied got %s", requestID, applied.RequestID)
	}
	if applied.Action != enums.CollabActionAccept {
		t.Fatalf("expected accept action got %s", applied.Action)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig(), stubCollabsService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
