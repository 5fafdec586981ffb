package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/internal/contracts"
	"github.com/creatorlane/creatorlane-backend/internal/deals"
	"github.com/creatorlane/creatorlane-backend/internal/notifier"
	"github.com/creatorlane/creatorlane-backend/internal/users"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/db"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/migrate"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/idempotency"
	"github.com/creatorlane/creatorlane-backend/pkg/pubsub"
	"github.com/creatorlane/creatorlane-backend/pkg/redis"
	"github.com/creatorlane/creatorlane-backend/pkg/sendgrid"
	"github.com/creatorlane/creatorlane-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
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

	idempotencyManager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	tokenCodec, err := actiontoken.NewCodec(cfg.ActionLink)
	if err != nil {
		logg.Error(context.Background(), "failed to create action token codec", err)
		os.Exit(1)
	}

	linkBuilder, err := collabs.NewLinkBuilder(tokenCodec, cfg.ActionLink)
	if err != nil {
		logg.Error(context.Background(), "failed to create action link builder", err)
		os.Exit(1)
	}

	auditRecorder, err := audit.NewRecorder(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	sendgridClient, err := sendgrid.NewClient(cfg.Sendgrid, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sendgrid client", err)
		os.Exit(1)
	}

	emailNotifier, err := notifier.NewEmailNotifier(sendgridClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create email notifier", err)
		os.Exit(1)
	}

	requestRepo := collabs.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())

	notifyConsumer, err := notifier.NewConsumer(notifier.ConsumerParams{
		Subscription: pubsubClient.NotifySubscription(),
		Idempotency:  idempotencyManager,
		Notifier:     emailNotifier,
		Links:        linkBuilder,
		Requests:     requestRepo,
		Creators:     userRepo,
		Recorder:     auditRecorder,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notify consumer", err)
		os.Exit(1)
	}

	contractGenerator, err := contracts.NewHTMLGenerator(gcsClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create contract generator", err)
		os.Exit(1)
	}

	contractsConsumer, err := contracts.NewConsumer(contracts.ConsumerParams{
		Subscription: pubsubClient.ContractsSubscription(),
		Idempotency:  idempotencyManager,
		Repo:         contracts.NewRepository(dbClient.DB()),
		TxRunner:     dbClient,
		Outbox:       outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Generator:    contractGenerator,
		Deals:        deals.NewRepository(dbClient.DB()),
		Requests:     requestRepo,
		Creators:     userRepo,
		Recorder:     auditRecorder,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create contracts consumer", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:            cfg,
		Logger:            logg,
		DB:                dbClient,
		Redis:             redisClient,
		PubSub:            pubsubClient,
		GCS:               gcsClient,
		NotifyConsumer:    notifyConsumer,
		ContractsConsumer: contractsConsumer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}
