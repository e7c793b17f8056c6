package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "KAFANICA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "KAFANICA_APP_ENV"
	EnvPort     = "KAFANICA_APP_PORT"
	EnvLogLevel = "KAFANICA_LOG_LEVEL"
	EnvDBPath   = "KAFANICA_DB_PATH"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Snapshot SnapshotConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KAFANICA_APP_ENV" required:"true"`
	Port         string `envconfig:"KAFANICA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KAFANICA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KAFANICA_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"KAFANICA_AUTO_MIGRATE" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path            string        `envconfig:"KAFANICA_DB_PATH" default:"kafanica.db"`
	BusyTimeout     time.Duration `envconfig:"KAFANICA_DB_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns    int           `envconfig:"KAFANICA_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"KAFANICA_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"KAFANICA_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// DSN renders the sqlite connection string, folding in the busy timeout.
func (db DBConfig) DSN() string {
	dsn := db.Path
	if db.BusyTimeout > 0 {
		dsn = fmt.Sprintf("%s?_busy_timeout=%d", dsn, db.BusyTimeout.Milliseconds())
	}
	return dsn
}

type SnapshotConfig struct {
	QueueSize    int           `envconfig:"KAFANICA_SNAPSHOT_QUEUE_SIZE" default:"64"`
	FlushTimeout time.Duration `envconfig:"KAFANICA_SNAPSHOT_FLUSH_TIMEOUT" default:"5s"`
}
