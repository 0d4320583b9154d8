// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string `env:"CIMS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"CIMS_GRPC_ADDR" envDefault:":50051"`

	DBDriver   string `env:"CIMS_DB_DRIVER" envDefault:"mysql"`
	MySQLDSN   string `env:"CIMS_MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/cims?parseTime=true"`
	SQLitePath string `env:"CIMS_SQLITE_PATH" envDefault:"cims.db"`

	DBMaxOpenConns    int           `env:"CIMS_DB_MAX_OPEN_CONNS" envDefault:"50"`
	DBMaxIdleConns    int           `env:"CIMS_DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"CIMS_DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	// MigrateOnStart applies the embedded MySQL schema at boot. SQLite is
	// always migrated.
	MigrateOnStart bool `env:"CIMS_MIGRATE_ON_START" envDefault:"true"`

	// RedisAddr enables change events when set.
	RedisAddr string `env:"CIMS_REDIS_ADDR"`

	HealthInterval  time.Duration `env:"CIMS_HEALTH_INTERVAL" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"CIMS_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("CIMS_MYSQL_DSN is required for the mysql driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("CIMS_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown CIMS_DB_DRIVER %q", c.DBDriver)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("CIMS_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("CIMS_HEALTH_INTERVAL must be positive")
	}
	return nil
}
