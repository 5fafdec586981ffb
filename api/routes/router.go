package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/creatorlane/creatorlane-backend/api/controllers"
	"github.com/creatorlane/creatorlane-backend/api/middleware"
	"github.com/creatorlane/creatorlane-backend/internal/analytics"
	"github.com/creatorlane/creatorlane-backend/internal/attachments"
	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/auth"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/auth/session"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	SessionManager  sessionManager
	TokenCodec      *actiontoken.Codec
	AuthService     auth.Service
	RegisterService auth.RegisterService
	Collabs         collabs.Service
	Deals           deals.Service
	Attachments     attachments.Service
	Analytics       analytics.Service
	Audit           audit.Recorder
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	// Brand-facing surface. No account, no bearer auth; the signed action
	// token is the only credential.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/collabs/action", controllers.CollabAction(d.TokenCodec, d.Collabs, logg))
		r.Post("/collabs/counter", controllers.CollabCounter(d.TokenCodec, d.Collabs, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.RegisterService, d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.SessionManager, cfg.JWT, logg))
	})

	// Creator dashboard surface.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/collabs", func(r chi.Router) {
			r.Post("/", controllers.CollabCreate(d.Collabs, logg))
			r.Get("/", controllers.CollabList(d.Collabs, logg))
			r.Get("/{requestId}", controllers.CollabDetail(d.Collabs, logg))
			r.Get("/{requestId}/audit", controllers.CollabAuditLog(d.Collabs, d.Audit, logg))
		})

		r.Route("/v1/deals", func(r chi.Router) {
			r.Get("/", controllers.DealList(d.Deals, logg))
			r.Get("/{dealId}", controllers.DealDetail(d.Deals, logg))
			r.Post("/{dealId}/transition", controllers.DealTransition(d.Deals, logg))
			r.Get("/{dealId}/audit", controllers.DealAuditLog(d.Deals, d.Audit, logg))
			r.Post("/{dealId}/attachments/presign", controllers.AttachmentPresign(d.Attachments, logg))
			r.Get("/{dealId}/attachments", controllers.DealAttachments(d.Attachments, logg))
		})

		r.Route("/v1/attachments", func(r chi.Router) {
			r.Post("/{attachmentId}/scan", controllers.AttachmentScan(d.Attachments, logg))
			r.Get("/{attachmentId}/download", controllers.AttachmentDownload(d.Attachments, logg))
		})

		r.Route("/v1/analytics", func(r chi.Router) {
			r.Get("/funnel", controllers.AnalyticsFunnel(d.Analytics, logg))
		})
	})

	return r
}
