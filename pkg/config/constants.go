package config

// EnvPrefix is passed to envconfig; individual fields carry the full variable
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "CREATORLANE_APP_ENV"
	EnvPort     = "CREATORLANE_APP_PORT"
	EnvDBDSN    = "CREATORLANE_DB_DSN"
	EnvDBHost   = "CREATORLANE_DB_HOST"
	EnvDBUser   = "CREATORLANE_DB_USER"
	EnvDBName   = "CREATORLANE_DB_NAME"
	EnvRedisURL = "CREATORLANE_REDIS_URL"

	EnvJWTSecret  = "CREATORLANE_JWT_SECRET"
	EnvJWTIssuer  = "CREATORLANE_JWT_ISSUER"
	EnvJWTExpMins = "CREATORLANE_JWT_EXPIRATION_MINUTES"

	EnvActionLinkSecret  = "CREATORLANE_ACTION_LINK_SECRET"
	EnvActionLinkBaseURL = "CREATORLANE_ACTION_LINK_BASE_URL"

	EnvGCPProjectID = "CREATORLANE_GCP_PROJECT_ID"
	EnvGCSBucket    = "CREATORLANE_GCS_BUCKET_NAME"

	EnvPubSubDealEventsTopic = "CREATORLANE_PUBSUB_DEAL_EVENTS_TOPIC"
	EnvPubSubNotifySub       = "CREATORLANE_PUBSUB_NOTIFY_SUBSCRIPTION"
	EnvPubSubContractsSub    = "CREATORLANE_PUBSUB_CONTRACTS_SUBSCRIPTION"
	EnvPubSubAnalyticsSub    = "CREATORLANE_PUBSUB_ANALYTICS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
