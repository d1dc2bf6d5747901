package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOPDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "SHOPDESK_APP_ENV"
	EnvPort            = "SHOPDESK_APP_PORT"
	EnvDBDSN           = "SHOPDESK_DB_DSN"
	EnvDBHost          = "SHOPDESK_DB_HOST"
	EnvDBUser          = "SHOPDESK_DB_USER"
	EnvDBName          = "SHOPDESK_DB_NAME"
	EnvRedisURL        = "SHOPDESK_REDIS_URL"
	EnvJWTAccessSecret = "SHOPDESK_JWT_ACCESS_SECRET"
	EnvJWTRefresh      = "SHOPDESK_JWT_REFRESH_SECRET"
	EnvJWTIssuer       = "SHOPDESK_JWT_ISSUER"
	EnvGCSBucket       = "SHOPDESK_GCS_BUCKET_NAME"
	EnvSMTPHost        = "SHOPDESK_SMTP_HOST"
	EnvSMTPFrom        = "SHOPDESK_SMTP_FROM"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	GCP           GCPConfig
	GCS           GCSConfig
	SMTP          SMTPConfig
	Upload        UploadConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPDESK_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPDESK_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPDESK_LOG_WARN_STACK" default:"false"`
	// PublicURL is used to build links in outbound emails.
	PublicURL string `envconfig:"SHOPDESK_PUBLIC_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPDESK_DB_DSN"`
	Driver string `envconfig:"SHOPDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPDESK_DB_USER"`
	LegacyPassword string `envconfig:"SHOPDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements that take longer; zero disables it.
	SlowQueryThreshold time.Duration `envconfig:"SHOPDESK_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// RedisConfig is optional; an empty URL and address disables auth rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"SHOPDESK_REDIS_URL"`
	Address      string        `envconfig:"SHOPDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	AccessSecret    string        `envconfig:"SHOPDESK_JWT_ACCESS_SECRET" required:"true"`
	RefreshSecret   string        `envconfig:"SHOPDESK_JWT_REFRESH_SECRET" required:"true"`
	Issuer          string        `envconfig:"SHOPDESK_JWT_ISSUER" default:"shopdesk"`
	AccessTokenTTL  time.Duration `envconfig:"SHOPDESK_JWT_ACCESS_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"SHOPDESK_JWT_REFRESH_TTL" default:"168h"`
}

func (j JWTConfig) validate() error {
	if j.AccessSecret == j.RefreshSecret {
		return fmt.Errorf("%s and %s must differ", EnvJWTAccessSecret, EnvJWTRefresh)
	}
	if j.AccessTokenTTL <= 0 || j.RefreshTokenTTL <= 0 {
		return fmt.Errorf("jwt ttls must be positive")
	}
	if j.RefreshTokenTTL <= j.AccessTokenTTL {
		return fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", j.RefreshTokenTTL, j.AccessTokenTTL)
	}
	return nil
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"SHOPDESK_BCRYPT_COST" default:"10"`
	MinLength  int `envconfig:"SHOPDESK_PASSWORD_MIN_LENGTH" default:"8"`
	// CodeTTL bounds both email verification and password reset codes.
	CodeTTL time.Duration `envconfig:"SHOPDESK_CODE_TTL" default:"15m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPDESK_AUTO_MIGRATE" default:"false"`
	// DocsEnabled serves /docs and /swagger.json.
	DocsEnabled bool `envconfig:"SHOPDESK_DOCS_ENABLED" default:"true"`
	Metrics     bool `envconfig:"SHOPDESK_METRICS_ENABLED" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHOPDESK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPDESK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOPDESK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPDESK_GOOGLE_APPLICATION_CREDENTIALS"`
}

// GCSConfig is optional; without a bucket uploads are rejected with an upstream error.
type GCSConfig struct {
	BucketName    string `envconfig:"SHOPDESK_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"SHOPDESK_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

// SMTPConfig is optional; without a host outbound mail is written to the log.
type SMTPConfig struct {
	Host     string `envconfig:"SHOPDESK_SMTP_HOST"`
	Port     int    `envconfig:"SHOPDESK_SMTP_PORT" default:"587"`
	Username string `envconfig:"SHOPDESK_SMTP_USERNAME"`
	Password string `envconfig:"SHOPDESK_SMTP_PASSWORD"`
	From     string `envconfig:"SHOPDESK_SMTP_FROM" default:"no-reply@shopdesk.local"`
	TLSMode  string `envconfig:"SHOPDESK_SMTP_TLS_MODE" default:"auto"`
}

func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"SHOPDESK_MAX_UPLOAD_MB" default:"10"`
}

// MaxBytes returns the multipart body ceiling.
func (u UploadConfig) MaxBytes() int64 {
	mb := u.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) << 20
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
