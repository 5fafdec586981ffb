package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/creatorlane/creatorlane-backend/api/routes"
	"github.com/creatorlane/creatorlane-backend/internal/analytics"
	"github.com/creatorlane/creatorlane-backend/internal/attachments"
	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/auth"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	"github.com/creatorlane/creatorlane-backend/internal/users"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/auth/session"
	"github.com/creatorlane/creatorlane-backend/pkg/bigquery"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/db"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/migrate"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
	"github.com/creatorlane/creatorlane-backend/pkg/redis"
	"github.com/creatorlane/creatorlane-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs client", err)
		}
	}()

	bigqueryClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bigqueryClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing bigquery client", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	tokenCodec, err := actiontoken.NewCodec(cfg.ActionLink)
	if err != nil {
		logg.Error(context.Background(), "failed to create action token codec", err)
		os.Exit(1)
	}

	auditRecorder, err := audit.NewRecorder(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	dealRepo := deals.NewRepository(dbClient.DB())
	collabService, err := collabs.NewService(
		collabs.NewRepository(dbClient.DB()),
		dealRepo,
		dbClient,
		outboxService,
		auditRecorder,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create collabs service", err)
		os.Exit(1)
	}

	dealService, err := deals.NewService(dealRepo, dbClient, outboxService, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create deals service", err)
		os.Exit(1)
	}

	attachmentService, err := attachments.NewService(attachments.ServiceParams{
		Repo:        attachments.NewRepository(dbClient.DB()),
		Deals:       dealRepo,
		GCS:         gcsClient,
		Scanner:     attachments.PassthroughScanner{},
		Recorder:    auditRecorder,
		Logger:      logg,
		Bucket:      cfg.GCS.BucketName,
		UploadTTL:   cfg.GCS.UploadURLExpiry,
		DownloadTTL: cfg.GCS.DownloadURLExpiry,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create attachments service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(bigqueryClient, cfg.GCP.ProjectID, cfg.BigQuery.Dataset, cfg.BigQuery.ActionEventsTable)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			TokenCodec:      tokenCodec,
			AuthService:     authService,
			RegisterService: registerService,
			Collabs:         collabService,
			Deals:           dealService,
			Attachments:     attachmentService,
			Analytics:       analyticsService,
			Audit:           auditRecorder,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
