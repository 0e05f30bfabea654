package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "orphancare"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ORPHANCARE_DB_DSN"
	EnvDBHost = "ORPHANCARE_DB_HOST"
	EnvDBUser = "ORPHANCARE_DB_USER"
	EnvDBName = "ORPHANCARE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Fulfillment  FulfillmentConfig
	Cron         CronConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"ORPHANCARE_APP_ENV" required:"true"`
	Port         string `envconfig:"ORPHANCARE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORPHANCARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORPHANCARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ORPHANCARE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ORPHANCARE_DB_DSN"`
	Driver string `envconfig:"ORPHANCARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORPHANCARE_DB_HOST"`
	LegacyPort     int    `envconfig:"ORPHANCARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORPHANCARE_DB_USER"`
	LegacyPassword string `envconfig:"ORPHANCARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORPHANCARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORPHANCARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORPHANCARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORPHANCARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORPHANCARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORPHANCARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORPHANCARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORPHANCARE_REDIS_ADDR"`
	Password     string        `envconfig:"ORPHANCARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORPHANCARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORPHANCARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORPHANCARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORPHANCARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORPHANCARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORPHANCARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORPHANCARE_AUTO_MIGRATE" default:"false"`
}

// FulfillmentConfig tunes the verify-then-correct pass that runs after a
// pledge is converted into inventory.
type FulfillmentConfig struct {
	VerifyDelay time.Duration `envconfig:"ORPHANCARE_FULFILLMENT_VERIFY_DELAY" default:"300ms"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"ORPHANCARE_CRON_INTERVAL" default:"1h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ORPHANCARE_CORS_ALLOWED_ORIGINS" default:"*"`
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
