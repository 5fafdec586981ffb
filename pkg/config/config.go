package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	ActionLink    ActionLinkConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Sendgrid      SendgridConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CREATORLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"CREATORLANE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CREATORLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CREATORLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CREATORLANE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CREATORLANE_DB_DSN"`
	Driver string `envconfig:"CREATORLANE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CREATORLANE_DB_HOST"`
	LegacyPort     int    `envconfig:"CREATORLANE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CREATORLANE_DB_USER"`
	LegacyPassword string `envconfig:"CREATORLANE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CREATORLANE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CREATORLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CREATORLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CREATORLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CREATORLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CREATORLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CREATORLANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CREATORLANE_REDIS_ADDR"`
	Password     string        `envconfig:"CREATORLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CREATORLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CREATORLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CREATORLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CREATORLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CREATORLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CREATORLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CREATORLANE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CREATORLANE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CREATORLANE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTTLHours   int    `envconfig:"CREATORLANE_JWT_REFRESH_TTL_HOURS" default:"720"`
}

func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTTLHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CREATORLANE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CREATORLANE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CREATORLANE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CREATORLANE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CREATORLANE_ARGON_KEY_LEN" default:"32"`
}

// ActionLinkConfig drives minting of signed brand action links. The secret is
// loaded once at startup and never mutated afterwards; rotating it invalidates
// every outstanding link.
type ActionLinkConfig struct {
	Secret  string        `envconfig:"CREATORLANE_ACTION_LINK_SECRET" required:"true"`
	TTL     time.Duration `envconfig:"CREATORLANE_ACTION_LINK_TTL" default:"168h"`
	BaseURL string        `envconfig:"CREATORLANE_ACTION_LINK_BASE_URL" required:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CREATORLANE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"CREATORLANE_USE_SQLITE" default:"false"`
	AutoMigrate bool   `envconfig:"CREATORLANE_AUTO_MIGRATE" default:"false"`
	AVScan      string `envconfig:"CREATORLANE_AV_SCAN" default:"off"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"CREATORLANE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CREATORLANE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"CREATORLANE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CREATORLANE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"CREATORLANE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"CREATORLANE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"CREATORLANE_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type PubSubConfig struct {
	DealEventsTopic       string `envconfig:"CREATORLANE_PUBSUB_DEAL_EVENTS_TOPIC" required:"true"`
	NotifySubscription    string `envconfig:"CREATORLANE_PUBSUB_NOTIFY_SUBSCRIPTION" required:"true"`
	ContractsSubscription string `envconfig:"CREATORLANE_PUBSUB_CONTRACTS_SUBSCRIPTION" required:"true"`
	AnalyticsSubscription string `envconfig:"CREATORLANE_PUBSUB_ANALYTICS_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset           string `envconfig:"CREATORLANE_BIGQUERY_DATASET" default:"creatorlane"`
	ActionEventsTable string `envconfig:"CREATORLANE_BIGQUERY_ACTION_EVENTS_TABLE" default:"deal_action_events"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"CREATORLANE_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"CREATORLANE_SENDGRID_FROM_EMAIL"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CREATORLANE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CREATORLANE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CREATORLANE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"CREATORLANE_CRON_INTERVAL" default:"1h"`
	RequestTTL    time.Duration `envconfig:"CREATORLANE_CRON_REQUEST_TTL" default:"336h"`
	OrphanDealAge time.Duration `envconfig:"CREATORLANE_CRON_ORPHAN_DEAL_AGE" default:"24h"`
	LockTTL       time.Duration `envconfig:"CREATORLANE_CRON_LOCK_TTL" default:"30m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
