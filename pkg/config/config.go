package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the backend reads.
const EnvPrefix = "FPLDUEL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FPLDUEL_DB_DSN"
	EnvDBHost = "FPLDUEL_DB_HOST"
	EnvDBUser = "FPLDUEL_DB_USER"
	EnvDBName = "FPLDUEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	Feed    FeedConfig
	Cron    CronConfig
	Season  SeasonConfig
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
	Env          string `envconfig:"FPLDUEL_APP_ENV" required:"true"`
	MetricsPort  string `envconfig:"FPLDUEL_METRICS_PORT" default:"9091"`
	LogLevel     string `envconfig:"FPLDUEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FPLDUEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FPLDUEL_SERVICE_KIND" default:"scheduler-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"FPLDUEL_DB_DSN"`
	Driver string `envconfig:"FPLDUEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FPLDUEL_DB_HOST"`
	LegacyPort     int    `envconfig:"FPLDUEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FPLDUEL_DB_USER"`
	LegacyPassword string `envconfig:"FPLDUEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"FPLDUEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"FPLDUEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FPLDUEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FPLDUEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FPLDUEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FPLDUEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"FPLDUEL_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FPLDUEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FPLDUEL_REDIS_ADDR"`
	Password     string        `envconfig:"FPLDUEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"FPLDUEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FPLDUEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FPLDUEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FPLDUEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FPLDUEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FPLDUEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// FeedConfig points at the fantasy feed that supplies the gameweek calendar.
type FeedConfig struct {
	BaseURL string        `envconfig:"FPLDUEL_FEED_BASE_URL" default:"https://fantasy.premierleague.com/api"`
	Timeout time.Duration `envconfig:"FPLDUEL_FEED_TIMEOUT" default:"15s"`
}

// CronConfig carries the schedule expressions for the worker jobs.
// Six fields, seconds first, matching the scheduler parser.
type CronConfig struct {
	GameweekSyncSpec string `envconfig:"FPLDUEL_CRON_GAMEWEEK_SYNC" default:"0 */3 * * * *"`
	MatchLiveSpec    string `envconfig:"FPLDUEL_CRON_MATCH_LIVE" default:"0 */5 * * * *"`
	MatchFinishSpec  string `envconfig:"FPLDUEL_CRON_MATCH_FINISH" default:"0 */5 * * * *"`
}

type SeasonConfig struct {
	Tag string `envconfig:"FPLDUEL_SEASON_TAG" default:"23-24"`
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
