package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime time.Duration

	// Warehouse is the remote analytics store the revenue import pulls
	// from. Only the DSN and source table are configured here; credential
	// management lives with the operator.
	WarehouseDSN   string
	WarehouseTable string

	Import    ImportConfig
	Scheduler SchedulerConfig

	CronToken string
}

// ImportConfig carries the import pipeline tuning knobs. The batch and
// dry-run sizes are configurable constants, not load-bearing invariants.
type ImportConfig struct {
	BatchSize      int
	DryRunRows     int
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// SchedulerConfig controls the in-process incremental import job.
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "revenuehub")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")

	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "revenuehub")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 20)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("WAREHOUSE_DSN", "")
	v.SetDefault("WAREHOUSE_TABLE", "net_revenue_offline_channels")

	v.SetDefault("IMPORT_BATCH_SIZE", 100)
	v.SetDefault("IMPORT_DRY_RUN_ROWS", 10)
	v.SetDefault("IMPORT_RETRY_ATTEMPTS", 5)
	v.SetDefault("IMPORT_RETRY_BASE_DELAY", "1s")

	v.SetDefault("SCHEDULER_ENABLED", false)
	v.SetDefault("SCHEDULER_INTERVAL", "24h")

	v.SetDefault("CRON_TOKEN", "")

	return Config{
		AppName:     v.GetString("APP_SERVICE"),
		AppVersion:  v.GetString("APP_VERSION"),
		Environment: v.GetString("ENVIRONMENT"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),

		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),

		WarehouseDSN:   strings.TrimSpace(v.GetString("WAREHOUSE_DSN")),
		WarehouseTable: v.GetString("WAREHOUSE_TABLE"),

		Import: ImportConfig{
			BatchSize:      v.GetInt("IMPORT_BATCH_SIZE"),
			DryRunRows:     v.GetInt("IMPORT_DRY_RUN_ROWS"),
			RetryAttempts:  v.GetInt("IMPORT_RETRY_ATTEMPTS"),
			RetryBaseDelay: v.GetDuration("IMPORT_RETRY_BASE_DELAY"),
		},
		Scheduler: SchedulerConfig{
			Enabled:  v.GetBool("SCHEDULER_ENABLED"),
			Interval: v.GetDuration("SCHEDULER_INTERVAL"),
		},

		CronToken: strings.TrimSpace(v.GetString("CRON_TOKEN")),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
